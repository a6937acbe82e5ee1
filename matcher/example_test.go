package matcher_test

import (
	"fmt"

	"github.com/katalvlaran/dagmatch/builder"
	"github.com/katalvlaran/dagmatch/matcher"
)

// ExampleMatch matches a three-node chain against itself.
func ExampleMatch() {
	g, err := builder.BuildDAG(nil, nil, builder.Path(3))
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	res, err := matcher.Match(g, g, matcher.WithAlgorithm(matcher.Optimal))
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Printf("similarity %.3f truncated=%v\n", res.Similarity, res.Truncated)
	for _, p := range res.Correspondence {
		fmt.Printf("%s->%s ", p.QueryLabel, p.ModelLabel)
	}
	fmt.Println()

	// Output:
	// similarity 1.000 truncated=false
	// 0->0 1->1 2->2
}
