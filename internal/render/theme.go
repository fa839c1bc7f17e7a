package render

// Theme holds colors for call-graph and CFG rendering.
type Theme struct {
	Background string
	NodeFill   string
	NodeBorder string
	TextColor  string

	// Edge colors by provenance category.
	EdgeTaken       string // conditional-branch taken edge
	EdgeFallthrough string // conditional-branch not-taken / fallthrough edge
	EdgeDirect      string // unconditional jump/call edge
	EdgeExtern      string // call into the extern-function catalog
	EdgeFuncPtr     string // call through the indirect-call trampoline

	// Node accents.
	ExitFill     string // blocks that end the function (ret/unresolved jump)
	ExternalText string // external / unresolved targets

	// Cluster styling.
	ClusterBorder string // subgraph cluster border
	ClusterLabel  string // subgraph cluster label text
}

// NASA is the NASA/Bauhaus theme: geometric, monochrome, sparse color.
var NASA = Theme{
	Background: "#F5F5F5",
	NodeFill:   "white",
	NodeBorder: "#1A1A1A",
	TextColor:  "#1A1A1A",

	EdgeTaken:       "#0B3D91", // NASA blue
	EdgeFallthrough: "#9E9E9E", // gray
	EdgeDirect:      "#424242", // dark gray
	EdgeExtern:      "#00695C", // teal
	EdgeFuncPtr:     "#E65100", // deep orange

	ExitFill:     "#ECEFF1", // blue-gray 50
	ExternalText: "#9E9E9E",

	ClusterBorder: "#BDBDBD",
	ClusterLabel:  "#757575",
}
