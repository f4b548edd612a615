package obsort

import (
	"fmt"

	"github.com/xlab/treeprint"
)

// ExplainSchedule renders the merge network for n buffers as a tree,
// one branch per sweep. Debug aid for operators; the output only
// contains buffer indices.
func ExplainSchedule(n int) string {
	tree := treeprint.NewWithRoot(fmt.Sprintf("merge network on %d buffers", n))
	for _, sw := range Sweeps(n) {
		br := tree.AddBranch(fmt.Sprintf("sweep %d", sw.Anchor))
		for _, pr := range sw.Pairs {
			br.AddNode(fmt.Sprintf("merge (%d, %d)", pr.A, pr.B))
		}
	}
	return tree.String()
}
