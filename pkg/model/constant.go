package model

const (
	// Raw blutils zymo-mock consensus used by the "Load example" shortcut.
	EXAMPLE_RAW_RESULT_URL = "https://raw.githubusercontent.com/LepistaBioinformatics/blutils/8c42f3e7bfe2d1e9de2038985e7c9a47625b6e78/test/mock/output/zymo-mock/blutils.consensus.json"
	EXAMPLE_DATA_URL       = "https://github.com/LepistaBioinformatics/blutils/blob/8c42f3e7bfe2d1e9de2038985e7c9a47625b6e78/test/mock/output/zymo-mock/blutils.consensus.json"
	BLUTILS_GITHUB_URL     = "https://github.com/LepistaBioinformatics/blutils"

	NO_MATCH_LABEL = "No significant match"
)

// Sequential palette for the composition bars, most frequent bean first.
var SEQUENTIAL_COLORS = []string{
	"#00A087",
	"#5EAE00",
	"#7CAE00",
	"#D7B5A6",
	"#DCAE6D",
	"#DE8A5A",
	"#F8766D",
}
