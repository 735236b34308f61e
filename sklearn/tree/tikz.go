package tree

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/YuminosukeSato/winequality/pkg/errors"
)

// TikZOptions controls ExportTikZ output.
type TikZOptions struct {
	// Legend appends a table mapping x_i to the feature names given by
	// FeatureNames or WithFeatureNames.
	Legend bool

	// FeatureNames overrides the names attached to the classifier.
	FeatureNames []string
}

const tikzPreamble = `\documentclass[margin=10pt]{standalone}
\usepackage{tikz,forest}
\usetikzlibrary{arrows.meta}
\forestset{
default preamble={
before typesetting nodes={
!r.replace by={[, coordinate, append]}
},
where n children=0{
tier=word,
}{
diamond, aspect=2,
},
where level=0{}{
if n=1{
edge label={node[pos=.2, above] {Y}},
}{
edge label={node[pos=.2, above] {N}},
}
},
for tree={
edge+={thick, -Latex},
s sep'+=2cm,
draw,
thick,
edge path'={ (!u) -| (.parent)},
align=center,
}
}
}
\begin{document}
`

// ExportTikZ writes the fitted tree as a standalone LaTeX document drawn with
// the forest package. Split nodes read "x_i <= t" (left branch is Y), leaves
// show the predicted class; both show the node impurity.
func (dt *DecisionTreeClassifier) ExportTikZ(w io.Writer, opts TikZOptions) error {
	if err := dt.state.RequireFitted("DecisionTreeClassifier", "ExportTikZ"); err != nil {
		return err
	}
	names := opts.FeatureNames
	if names == nil {
		names = dt.featureNames
	}
	if opts.Legend && len(names) != dt.nFeatures_ {
		return errors.NewDimensionError("DecisionTreeClassifier.ExportTikZ", dt.nFeatures_, len(names), 1)
	}

	bw := bufio.NewWriter(w)
	bw.WriteString(tikzPreamble)
	bw.WriteString("\\begin{forest}\n")
	dt.writeNode(bw, dt.root_)
	bw.WriteString("\\end{forest}\n")

	if opts.Legend {
		used := dt.Features()
		bw.WriteString("\\hspace{1cm}\n")
		bw.WriteString("\\begin{tabular}{|l|l|}\n\\hline\n")
		bw.WriteString("\\textbf{Feature} & \\textbf{Name} \\\\\n\\hline\n")
		for _, f := range used {
			fmt.Fprintf(bw, "$x_{%d}$ & %s \\\\\n", f, EscapeLaTeX(names[f]))
		}
		bw.WriteString("\\hline\n\\end{tabular}\n")
	}
	bw.WriteString("\\end{document}\n")

	if err := bw.Flush(); err != nil {
		return errors.Wrap(err, "export tikz")
	}
	return nil
}

func (dt *DecisionTreeClassifier) writeNode(w *bufio.Writer, n *node) {
	if n.isLeaf() {
		fmt.Fprintf(w, "[{Label: %d\\\\Impurity: %.3f}]\n", dt.classes_[n.prediction], n.impurity)
		return
	}
	fmt.Fprintf(w, "[{$x_{%d} \\leq %.3f$\\\\Impurity: %.3f}\n", n.feature, n.threshold, n.impurity)
	dt.writeNode(w, n.left)
	dt.writeNode(w, n.right)
	w.WriteString("]\n")
}

var latexReplacer = strings.NewReplacer(
	`\`, `\textbackslash{}`,
	`&`, `\&`,
	`%`, `\%`,
	`$`, `\$`,
	`#`, `\#`,
	`_`, `\_`,
	`{`, `\{`,
	`}`, `\}`,
	`~`, `\textasciitilde{}`,
	`^`, `\textasciicircum{}`,
)

// EscapeLaTeX escapes the characters that are special in LaTeX text mode.
func EscapeLaTeX(s string) string {
	return latexReplacer.Replace(s)
}
