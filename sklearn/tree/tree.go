// Package tree implements CART decision tree classifiers over gonum matrices.
package tree

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/winequality/core/model"
	"github.com/YuminosukeSato/winequality/pkg/errors"
	"github.com/YuminosukeSato/winequality/pkg/log"
)

// Split criteria.
const (
	CriterionGini    = "gini"
	CriterionEntropy = "entropy"
)

// gainTolerance absorbs floating point noise when comparing impurity gains.
const gainTolerance = 1e-12

var (
	_ model.Classifier      = (*DecisionTreeClassifier)(nil)
	_ model.ParameterGetter = (*DecisionTreeClassifier)(nil)
	_ model.ParameterSetter = (*DecisionTreeClassifier)(nil)
)

// DecisionTreeClassifier is a CART classifier compatible with
// scikit-learn's DecisionTreeClassifier.
//
// Induction is deterministic: features are scanned in index order,
// thresholds in ascending order, and the first strictly best split wins.
type DecisionTreeClassifier struct {
	state *model.StateManager // State management (composition)

	// Hyperparameters
	criterion           string  // "gini" or "entropy"
	maxDepth            int     // Maximum depth, negative for unlimited
	minSamplesSplit     int     // Minimum samples required to split a node
	minSamplesLeaf      int     // Minimum samples required in each child
	minImpurityDecrease float64 // Minimum impurity decrease required to split
	featureNames        []string

	// Model parameters
	root_               *node
	classes_            []int // Unique class labels, ascending
	nClasses_           int
	nFeatures_          int
	featureImportances_ []float64
	nLeaves_            int
	depth_              int
}

// node is a tree node. Leaves have feature == -1.
type node struct {
	feature   int
	threshold float64
	left      *node
	right     *node

	impurity   float64
	nSamples   int
	counts     []float64 // samples per class index
	prediction int       // class index with the largest count
	depth      int
}

func (n *node) isLeaf() bool { return n.feature < 0 }

// DecisionTreeOption is a functional option for DecisionTreeClassifier
type DecisionTreeOption func(*DecisionTreeClassifier)

// NewDecisionTreeClassifier creates a new DecisionTreeClassifier
func NewDecisionTreeClassifier(opts ...DecisionTreeOption) *DecisionTreeClassifier {
	dt := &DecisionTreeClassifier{
		state:           model.NewStateManager(),
		criterion:       CriterionGini,
		maxDepth:        -1,
		minSamplesSplit: 2,
		minSamplesLeaf:  1,
	}

	for _, opt := range opts {
		opt(dt)
	}
	return dt
}

// WithCriterion sets the split criterion ("gini" or "entropy")
func WithCriterion(criterion string) DecisionTreeOption {
	return func(dt *DecisionTreeClassifier) {
		dt.criterion = criterion
	}
}

// WithMaxDepth sets the maximum depth of the tree. A negative value means
// no limit.
func WithMaxDepth(depth int) DecisionTreeOption {
	return func(dt *DecisionTreeClassifier) {
		dt.maxDepth = depth
	}
}

// WithMinSamplesSplit sets the minimum number of samples needed to split a node
func WithMinSamplesSplit(n int) DecisionTreeOption {
	return func(dt *DecisionTreeClassifier) {
		dt.minSamplesSplit = n
	}
}

// WithMinSamplesLeaf sets the minimum number of samples in each leaf
func WithMinSamplesLeaf(n int) DecisionTreeOption {
	return func(dt *DecisionTreeClassifier) {
		dt.minSamplesLeaf = n
	}
}

// WithMinImpurityDecrease sets the minimum impurity decrease a split must achieve
func WithMinImpurityDecrease(v float64) DecisionTreeOption {
	return func(dt *DecisionTreeClassifier) {
		dt.minImpurityDecrease = v
	}
}

// WithFeatureNames attaches column names used by ExportTikZ legends
func WithFeatureNames(names []string) DecisionTreeOption {
	return func(dt *DecisionTreeClassifier) {
		dt.featureNames = append([]string(nil), names...)
	}
}

func (dt *DecisionTreeClassifier) validateParams() error {
	if dt.criterion != CriterionGini && dt.criterion != CriterionEntropy {
		return errors.NewValidationError("criterion", "must be \"gini\" or \"entropy\"", dt.criterion)
	}
	if dt.minSamplesSplit < 2 {
		return errors.NewValidationError("min_samples_split", "must be at least 2", dt.minSamplesSplit)
	}
	if dt.minSamplesLeaf < 1 {
		return errors.NewValidationError("min_samples_leaf", "must be at least 1", dt.minSamplesLeaf)
	}
	if dt.minImpurityDecrease < 0 || math.IsNaN(dt.minImpurityDecrease) {
		return errors.NewValidationError("min_impurity_decrease", "must be non-negative", dt.minImpurityDecrease)
	}
	return nil
}

// Fit grows the tree on X (n_samples × n_features) and the labels in the
// first column of y. Labels must be integral.
func (dt *DecisionTreeClassifier) Fit(X, y mat.Matrix) error {
	if err := dt.validateParams(); err != nil {
		return err
	}

	nSamples, nFeatures := X.Dims()
	if nSamples == 0 || nFeatures == 0 {
		return errors.NewInsufficientSamplesError("DecisionTreeClassifier.Fit", nSamples, 1)
	}
	yRows, yCols := y.Dims()
	if yRows != nSamples {
		return errors.NewDimensionError("DecisionTreeClassifier.Fit", nSamples, yRows, 0)
	}
	if yCols != 1 {
		return errors.NewDimensionError("DecisionTreeClassifier.Fit", 1, yCols, 1)
	}
	if len(dt.featureNames) != 0 && len(dt.featureNames) != nFeatures {
		return errors.NewDimensionError("DecisionTreeClassifier.Fit", nFeatures, len(dt.featureNames), 1)
	}

	labels, err := dt.extractClasses(y)
	if err != nil {
		return err
	}

	b := &builder{
		dt:          dt,
		X:           mat.DenseCopyOf(X),
		labels:      labels,
		importances: make([]float64, nFeatures),
	}
	idx := make([]int, nSamples)
	for i := range idx {
		idx[i] = i
	}

	dt.state.Reset()
	dt.nFeatures_ = nFeatures
	dt.root_ = b.grow(idx, 0)
	dt.featureImportances_ = normalize(b.importances)
	dt.nLeaves_, dt.depth_ = countLeaves(dt.root_)

	dt.state.SetDimensions(nFeatures, nSamples)
	dt.state.SetFitted()

	log.GetLogger().Debug("Decision tree fitted",
		log.ModelNameKey, "DecisionTreeClassifier",
		log.CriterionKey, dt.criterion,
		log.OperationKey, log.OperationFit,
		log.SamplesKey, nSamples,
		log.FeaturesKey, nFeatures,
		log.DepthKey, dt.depth_,
		log.LeavesKey, dt.nLeaves_,
	)
	return nil
}

// extractClasses identifies unique class labels and maps every sample to
// its class index.
func (dt *DecisionTreeClassifier) extractClasses(y mat.Matrix) ([]int, error) {
	rows, _ := y.Dims()
	raw := make([]int, rows)
	seen := make(map[int]struct{})
	for i := 0; i < rows; i++ {
		v := y.At(i, 0)
		if math.IsNaN(v) || math.IsInf(v, 0) || math.Trunc(v) != v {
			return nil, errors.NewValidationError("y", fmt.Sprintf("label at row %d is not an integer class", i), v)
		}
		raw[i] = int(v)
		seen[raw[i]] = struct{}{}
	}

	dt.classes_ = make([]int, 0, len(seen))
	for c := range seen {
		dt.classes_ = append(dt.classes_, c)
	}
	sort.Ints(dt.classes_)
	dt.nClasses_ = len(dt.classes_)

	index := make(map[int]int, dt.nClasses_)
	for i, c := range dt.classes_ {
		index[c] = i
	}
	labels := make([]int, rows)
	for i, c := range raw {
		labels[i] = index[c]
	}
	return labels, nil
}

// builder holds the training data while a tree is grown.
type builder struct {
	dt          *DecisionTreeClassifier
	X           *mat.Dense
	labels      []int
	importances []float64
}

type split struct {
	feature   int
	threshold float64
	gain      float64
	nLeft     int
}

func (b *builder) grow(idx []int, depth int) *node {
	dt := b.dt
	n := len(idx)
	counts := make([]float64, dt.nClasses_)
	for _, i := range idx {
		counts[b.labels[i]]++
	}

	nd := &node{
		feature:    -1,
		impurity:   dt.impurity(counts, float64(n)),
		nSamples:   n,
		counts:     counts,
		prediction: argmax(counts),
		depth:      depth,
	}

	if isPure(counts) ||
		n < dt.minSamplesSplit ||
		n < 2*dt.minSamplesLeaf ||
		(dt.maxDepth >= 0 && depth >= dt.maxDepth) {
		return nd
	}

	best, ok := b.bestSplit(idx, nd)
	if !ok || best.gain < dt.minImpurityDecrease-gainTolerance {
		return nd
	}

	left := make([]int, 0, best.nLeft)
	right := make([]int, 0, n-best.nLeft)
	for _, i := range idx {
		if b.X.At(i, best.feature) <= best.threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}

	nd.feature = best.feature
	nd.threshold = best.threshold
	b.importances[best.feature] += float64(n) * best.gain
	nd.left = b.grow(left, depth+1)
	nd.right = b.grow(right, depth+1)
	return nd
}

// bestSplit scans every feature for the threshold with the largest impurity
// decrease that leaves at least minSamplesLeaf samples on each side.
func (b *builder) bestSplit(idx []int, parent *node) (split, bool) {
	dt := b.dt
	n := len(idx)
	total := float64(n)

	var best split
	found := false

	sorted := make([]int, n)
	leftCounts := make([]float64, dt.nClasses_)
	rightCounts := make([]float64, dt.nClasses_)

	for f := 0; f < b.X.RawMatrix().Cols; f++ {
		copy(sorted, idx)
		sort.SliceStable(sorted, func(a, c int) bool {
			return b.X.At(sorted[a], f) < b.X.At(sorted[c], f)
		})

		for k := range leftCounts {
			leftCounts[k] = 0
		}
		copy(rightCounts, parent.counts)

		for k := 0; k < n-1; k++ {
			lbl := b.labels[sorted[k]]
			leftCounts[lbl]++
			rightCounts[lbl]--

			nLeft := k + 1
			nRight := n - nLeft
			if nLeft < dt.minSamplesLeaf {
				continue
			}
			if nRight < dt.minSamplesLeaf {
				break
			}

			lo := b.X.At(sorted[k], f)
			hi := b.X.At(sorted[k+1], f)
			if lo == hi {
				continue
			}

			weighted := (float64(nLeft)*dt.impurity(leftCounts, float64(nLeft)) +
				float64(nRight)*dt.impurity(rightCounts, float64(nRight))) / total
			gain := parent.impurity - weighted

			if !found || gain > best.gain+gainTolerance {
				threshold := lo + (hi-lo)/2
				if threshold >= hi {
					threshold = lo
				}
				best = split{feature: f, threshold: threshold, gain: gain, nLeft: nLeft}
				found = true
			}
		}
	}
	return best, found
}

func (dt *DecisionTreeClassifier) impurity(counts []float64, total float64) float64 {
	if total == 0 {
		return 0
	}
	if dt.criterion == CriterionEntropy {
		return entropy(counts, total)
	}
	return gini(counts, total)
}

// gini is 1 - Σ p².
func gini(counts []float64, total float64) float64 {
	sum := 0.0
	for _, c := range counts {
		p := c / total
		sum += p * p
	}
	return 1 - sum
}

// entropy is -Σ p log2 p.
func entropy(counts []float64, total float64) float64 {
	h := 0.0
	for _, c := range counts {
		if c == 0 {
			continue
		}
		p := c / total
		h -= p * math.Log2(p)
	}
	return h
}

func isPure(counts []float64) bool {
	nonZero := 0
	for _, c := range counts {
		if c > 0 {
			nonZero++
		}
	}
	return nonZero <= 1
}

// argmax returns the first index of the largest value.
func argmax(v []float64) int {
	best := 0
	for i := 1; i < len(v); i++ {
		if v[i] > v[best] {
			best = i
		}
	}
	return best
}

func normalize(v []float64) []float64 {
	out := make([]float64, len(v))
	sum := 0.0
	for _, x := range v {
		sum += x
	}
	if sum <= 0 {
		return out
	}
	for i, x := range v {
		out[i] = x / sum
	}
	return out
}

func countLeaves(n *node) (leaves, depth int) {
	if n == nil {
		return 0, 0
	}
	if n.isLeaf() {
		return 1, n.depth
	}
	ll, ld := countLeaves(n.left)
	rl, rd := countLeaves(n.right)
	return ll + rl, max(ld, rd)
}

func (dt *DecisionTreeClassifier) checkInput(X mat.Matrix, method string) error {
	if err := dt.state.RequireFitted("DecisionTreeClassifier", method); err != nil {
		return err
	}
	if r, _ := X.Dims(); r == 0 {
		return errors.NewValueError("DecisionTreeClassifier."+method, "empty input")
	}
	_, c := X.Dims()
	return dt.state.RequireFeatures("DecisionTreeClassifier."+method, c)
}

// leaf walks the tree for one sample.
func (dt *DecisionTreeClassifier) leaf(X mat.Matrix, i int) *node {
	nd := dt.root_
	for !nd.isLeaf() {
		if X.At(i, nd.feature) <= nd.threshold {
			nd = nd.left
		} else {
			nd = nd.right
		}
	}
	return nd
}

// Predict returns an n_samples × 1 matrix of class labels
func (dt *DecisionTreeClassifier) Predict(X mat.Matrix) (mat.Matrix, error) {
	if err := dt.checkInput(X, "Predict"); err != nil {
		return nil, err
	}

	nSamples, _ := X.Dims()
	predictions := mat.NewDense(nSamples, 1, nil)
	for i := 0; i < nSamples; i++ {
		predictions.Set(i, 0, float64(dt.classes_[dt.leaf(X, i).prediction]))
	}
	return predictions, nil
}

// PredictProba returns the class distribution of the leaf reached by each
// sample; columns follow Classes().
func (dt *DecisionTreeClassifier) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	if err := dt.checkInput(X, "PredictProba"); err != nil {
		return nil, err
	}

	nSamples, _ := X.Dims()
	probas := mat.NewDense(nSamples, dt.nClasses_, nil)
	for i := 0; i < nSamples; i++ {
		nd := dt.leaf(X, i)
		for k, c := range nd.counts {
			probas.Set(i, k, c/float64(nd.nSamples))
		}
	}
	return probas, nil
}

// Score returns the mean accuracy on the given test data and labels
func (dt *DecisionTreeClassifier) Score(X, y mat.Matrix) float64 {
	predictions, err := dt.Predict(X)
	if err != nil {
		return 0.0
	}

	nSamples, _ := X.Dims()
	correct := 0
	for i := 0; i < nSamples; i++ {
		if predictions.At(i, 0) == y.At(i, 0) {
			correct++
		}
	}
	return float64(correct) / float64(nSamples)
}

// IsFitted reports whether Fit has completed successfully
func (dt *DecisionTreeClassifier) IsFitted() bool {
	return dt.state.IsFitted()
}

// Classes returns the class labels seen during fitting, ascending
func (dt *DecisionTreeClassifier) Classes() []int {
	return append([]int(nil), dt.classes_...)
}

// Features returns the sorted indices of the features used by at least one split
func (dt *DecisionTreeClassifier) Features() []int {
	used := make(map[int]struct{})
	walk(dt.root_, func(nd *node) {
		if !nd.isLeaf() {
			used[nd.feature] = struct{}{}
		}
	})
	out := make([]int, 0, len(used))
	for f := range used {
		out = append(out, f)
	}
	sort.Ints(out)
	return out
}

// FeatureNames returns the names attached with WithFeatureNames
func (dt *DecisionTreeClassifier) FeatureNames() []string {
	return append([]string(nil), dt.featureNames...)
}

// GetFeatureImportances returns the normalized total impurity decrease
// contributed by each feature
func (dt *DecisionTreeClassifier) GetFeatureImportances() []float64 {
	return append([]float64(nil), dt.featureImportances_...)
}

// GetDepth returns the depth of the deepest leaf; the root has depth 0
func (dt *DecisionTreeClassifier) GetDepth() int {
	return dt.depth_
}

// GetNLeaves returns the number of leaves
func (dt *DecisionTreeClassifier) GetNLeaves() int {
	return dt.nLeaves_
}

func walk(n *node, fn func(*node)) {
	if n == nil {
		return
	}
	fn(n)
	walk(n.left, fn)
	walk(n.right, fn)
}

// GetParams returns the model hyperparameters
func (dt *DecisionTreeClassifier) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"criterion":             dt.criterion,
		"max_depth":             dt.maxDepth,
		"min_samples_split":     dt.minSamplesSplit,
		"min_samples_leaf":      dt.minSamplesLeaf,
		"min_impurity_decrease": dt.minImpurityDecrease,
	}
}

// SetParams sets the model hyperparameters. Nothing changes unless every
// value has the right type and the resulting set is valid.
func (dt *DecisionTreeClassifier) SetParams(params map[string]interface{}) error {
	staged := *dt
	for key, value := range params {
		var ok bool
		switch key {
		case "criterion":
			var v string
			if v, ok = value.(string); ok {
				staged.criterion = v
			}
		case "max_depth":
			if value == nil {
				staged.maxDepth, ok = -1, true
			} else {
				var v int
				if v, ok = value.(int); ok {
					staged.maxDepth = v
				}
			}
		case "min_samples_split":
			var v int
			if v, ok = value.(int); ok {
				staged.minSamplesSplit = v
			}
		case "min_samples_leaf":
			var v int
			if v, ok = value.(int); ok {
				staged.minSamplesLeaf = v
			}
		case "min_impurity_decrease":
			var v float64
			if v, ok = value.(float64); ok {
				staged.minImpurityDecrease = v
			}
		default:
			return errors.NewValueError("DecisionTreeClassifier.SetParams", fmt.Sprintf("unknown parameter: %s", key))
		}
		if !ok {
			return errors.NewValidationError(key, fmt.Sprintf("unexpected type %T", value), value)
		}
	}
	if err := staged.validateParams(); err != nil {
		return err
	}
	dt.criterion = staged.criterion
	dt.maxDepth = staged.maxDepth
	dt.minSamplesSplit = staged.minSamplesSplit
	dt.minSamplesLeaf = staged.minSamplesLeaf
	dt.minImpurityDecrease = staged.minImpurityDecrease
	return nil
}
