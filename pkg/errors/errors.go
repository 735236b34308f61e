// Package errors はプロジェクト全体のエラーハンドリングと警告システムを提供します。
// 入力データの破損、分割設定の誤り、レポート出力の失敗などを型付きエラーとして表現し、
// 呼び出し側が errors.As で原因を区別できるようにします。
package errors

import (
	"fmt"
	"log"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// ===========================================================================
//
//	グローバル警告ハンドリング
//
// ===========================================================================
var (
	warningMutex   sync.Mutex
	warningHandler = func(w error) {
		// デフォルトのハンドラは標準エラー出力にログを出す
		log.Printf("wineq-warning: %v\n", w)
	}
	// zerologロガー（循環importを避けるため遅延初期化）
	zerologWarnFunc func(warning error)
)

// SetWarningHandler は警告ハンドラを設定します。
//
// 例:
//
//	errors.SetWarningHandler(func(w error) {
//	    // 警告を無視する
//	})
func SetWarningHandler(handler func(w error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	warningHandler = handler
}

// SetZerologWarnFunc はzerolog警告関数を設定します（循環importを避けるため）。
// nil を渡すと従来のハンドラに戻ります。
func SetZerologWarnFunc(warnFunc func(warning error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	zerologWarnFunc = warnFunc
}

// Warn は警告を発生させます。
// zerologが利用可能な場合は構造化ログとして出力し、そうでなければ従来のハンドラを使用します。
func Warn(w error) {
	warningMutex.Lock()
	defer warningMutex.Unlock()

	if zerologWarnFunc != nil {
		zerologWarnFunc(w)
		return
	}

	if warningHandler != nil {
		warningHandler(w)
	}
}

// ===========================================================================
//
//	警告型
//
// ===========================================================================

// ConstantFeatureWarning は学習データ中で分散がゼロの特徴量が見つかった場合の警告です。
// スケーラーはその特徴量のスケールを1として扱います。
type ConstantFeatureWarning struct {
	Op      string
	Feature int
	Value   float64
}

func (w *ConstantFeatureWarning) Error() string {
	return fmt.Sprintf("%s: feature %d is constant (%g) in the fitted data; its scale is set to 1", w.Op, w.Feature, w.Value)
}

// MarshalZerologObject はzerologのイベントに構造化された警告情報を追加します。
func (w *ConstantFeatureWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("operation", w.Op).
		Int("feature", w.Feature).
		Float64("value", w.Value).
		Str("type", "ConstantFeatureWarning")
}

// NewConstantFeatureWarning は新しいConstantFeatureWarningを作成します。
func NewConstantFeatureWarning(op string, feature int, value float64) *ConstantFeatureWarning {
	return &ConstantFeatureWarning{Op: op, Feature: feature, Value: value}
}

// UndefinedMetricWarning は評価指標が計算できない場合に発生する警告です。
type UndefinedMetricWarning struct {
	Metric    string
	Condition string
	Result    float64 // この条件で返される値
}

func (w *UndefinedMetricWarning) Error() string {
	return fmt.Sprintf("'%s' is ill-defined and being set to %f due to %s.", w.Metric, w.Result, w.Condition)
}

// NewUndefinedMetricWarning は新しいUndefinedMetricWarningを作成します。
func NewUndefinedMetricWarning(metric, condition string, result float64) *UndefinedMetricWarning {
	return &UndefinedMetricWarning{Metric: metric, Condition: condition, Result: result}
}

// ===========================================================================
//
//	入力データのエラー型
//
// ===========================================================================

// FormatError はCSVの行の長さが揃っていない、または区切りが壊れている場合のエラーです。
type FormatError struct {
	Line     int // 1始まりの行番号
	Expected int // 期待される列数（0 の場合は不明）
	Got      int
	Reason   string
}

func (e *FormatError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("wineq: malformed input at line %d: %s", e.Line, e.Reason)
	}
	return fmt.Sprintf("wineq: malformed input at line %d: expected %d fields, got %d", e.Line, e.Expected, e.Got)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *FormatError) MarshalZerologObject(event *zerolog.Event) {
	event.Int("line", e.Line).
		Int("expected", e.Expected).
		Int("got", e.Got).
		Str("reason", e.Reason).
		Str("type", "FormatError")
}

// NewFormatError は列数の不一致を示すFormatErrorを作成し、スタックトレースを付与します。
func NewFormatError(line, expected, got int) error {
	return errors.WithStack(&FormatError{Line: line, Expected: expected, Got: got})
}

// NewFormatErrorf は理由付きのFormatErrorを作成します。
func NewFormatErrorf(line int, format string, args ...interface{}) error {
	return errors.WithStack(&FormatError{Line: line, Reason: fmt.Sprintf(format, args...)})
}

// ParseError はフィールドが数値として解釈できない場合のエラーです。
type ParseError struct {
	Line   int // 1始まりの行番号
	Column int // 1始まりの列番号
	Field  string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("wineq: line %d, column %d: cannot parse %q as a number", e.Line, e.Column, e.Field)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *ParseError) MarshalZerologObject(event *zerolog.Event) {
	event.Int("line", e.Line).
		Int("column", e.Column).
		Str("field", e.Field).
		Str("type", "ParseError")
}

// NewParseError は新しいParseErrorを作成し、スタックトレースを付与します。
func NewParseError(line, column int, field string, err error) error {
	return errors.WithStack(&ParseError{Line: line, Column: column, Field: field, Err: err})
}

// EmptyInputError はデータ行が一つも存在しない場合のエラーです。
type EmptyInputError struct {
	Op string
}

func (e *EmptyInputError) Error() string {
	return fmt.Sprintf("wineq: %s: input contains no data rows", e.Op)
}

// Unwrap により errors.Is(err, ErrEmptyData) が成立します。
func (e *EmptyInputError) Unwrap() error {
	return ErrEmptyData
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *EmptyInputError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Str("type", "EmptyInputError")
}

// NewEmptyInputError は新しいEmptyInputErrorを作成し、スタックトレースを付与します。
func NewEmptyInputError(op string) error {
	return errors.WithStack(&EmptyInputError{Op: op})
}

// DecompressionError は圧縮ストリームの枠組みが壊れている場合のエラーです。
// 内容の破損（FormatError, ParseError）と伝送の破損を区別するために使います。
type DecompressionError struct {
	Op  string
	Err error
}

func (e *DecompressionError) Error() string {
	return fmt.Sprintf("wineq: %s: corrupt compressed stream: %v", e.Op, e.Err)
}

func (e *DecompressionError) Unwrap() error {
	return e.Err
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *DecompressionError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Str("cause", fmt.Sprint(e.Err)).
		Str("type", "DecompressionError")
}

// NewDecompressionError は新しいDecompressionErrorを作成し、スタックトレースを付与します。
func NewDecompressionError(op string, err error) error {
	return errors.WithStack(&DecompressionError{Op: op, Err: err})
}

// LabelCastError はラベル列の値がクラス番号として表現できない場合のエラーです。
type LabelCastError struct {
	Row    int
	Value  float64
	Reason string
}

func (e *LabelCastError) Error() string {
	return fmt.Sprintf("wineq: label at row %d (%v) is not a class index: %s", e.Row, e.Value, e.Reason)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *LabelCastError) MarshalZerologObject(event *zerolog.Event) {
	event.Int("row", e.Row).
		Float64("value", e.Value).
		Str("reason", e.Reason).
		Str("type", "LabelCastError")
}

// NewLabelCastError は新しいLabelCastErrorを作成し、スタックトレースを付与します。
func NewLabelCastError(row int, value float64, reason string) error {
	return errors.WithStack(&LabelCastError{Row: row, Value: value, Reason: reason})
}

// ===========================================================================
//
//	分割ステージのエラー型
//
// ===========================================================================

// InvalidRatioError は分割比率が開区間 (0, 1) の外にある場合のエラーです。
type InvalidRatioError struct {
	Ratio float64
}

func (e *InvalidRatioError) Error() string {
	return fmt.Sprintf("wineq: split ratio must be in (0, 1), got %v", e.Ratio)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *InvalidRatioError) MarshalZerologObject(event *zerolog.Event) {
	event.Float64("ratio", e.Ratio).
		Str("type", "InvalidRatioError")
}

// NewInvalidRatioError は新しいInvalidRatioErrorを作成し、スタックトレースを付与します。
func NewInvalidRatioError(ratio float64) error {
	return errors.WithStack(&InvalidRatioError{Ratio: ratio})
}

// InsufficientSamplesError は処理に必要なサンプル数が足りない場合のエラーです。
type InsufficientSamplesError struct {
	Op   string
	Got  int
	Need int
}

func (e *InsufficientSamplesError) Error() string {
	return fmt.Sprintf("wineq: %s: need at least %d samples, got %d", e.Op, e.Need, e.Got)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *InsufficientSamplesError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Int("got", e.Got).
		Int("need", e.Need).
		Str("type", "InsufficientSamplesError")
}

// NewInsufficientSamplesError は新しいInsufficientSamplesErrorを作成し、スタックトレースを付与します。
func NewInsufficientSamplesError(op string, got, need int) error {
	return errors.WithStack(&InsufficientSamplesError{Op: op, Got: got, Need: need})
}

// ===========================================================================
//
//	出力のエラー型
//
// ===========================================================================

// IOError はレポートファイルの書き込みに失敗した場合のエラーです。
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("wineq: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *IOError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Str("path", e.Path).
		Str("cause", fmt.Sprint(e.Err)).
		Str("type", "IOError")
}

// NewIOError は新しいIOErrorを作成し、スタックトレースを付与します。
func NewIOError(op, path string, err error) error {
	return errors.WithStack(&IOError{Op: op, Path: path, Err: err})
}

// ===========================================================================
//
//	モデル関連のエラー型
//
// ===========================================================================

// NotFittedError はモデルが未学習の状態で `Predict` や `Transform` を呼び出した場合のエラーです。
type NotFittedError struct {
	ModelName string
	Method    string
}

func (e *NotFittedError) Error() string {
	return fmt.Sprintf("wineq: %s: this model is not fitted yet. Call Fit() before using %s()", e.ModelName, e.Method)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *NotFittedError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("model_name", e.ModelName).
		Str("method", e.Method).
		Str("type", "NotFittedError")
}

// NewNotFittedError は新しいNotFittedErrorを作成し、スタックトレースを付与します。
func NewNotFittedError(modelName, method string) error {
	err := &NotFittedError{ModelName: modelName, Method: method}
	return errors.WithStack(err)
}

// DimensionError は入力データの次元が期待値と異なる場合のエラーです。
type DimensionError struct {
	Op       string
	Expected int
	Got      int
	Axis     int // 0 for rows, 1 for columns/features
}

func (e *DimensionError) Error() string {
	axisName := "features"
	if e.Axis == 0 {
		axisName = "rows"
	}
	return fmt.Sprintf("wineq: %s: dimension mismatch on axis %d (%s). Expected %d, got %d", e.Op, e.Axis, axisName, e.Expected, e.Got)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *DimensionError) MarshalZerologObject(event *zerolog.Event) {
	axisName := "features"
	if e.Axis == 0 {
		axisName = "rows"
	}
	event.Str("operation", e.Op).
		Int("expected", e.Expected).
		Int("got", e.Got).
		Int("axis", e.Axis).
		Str("axis_name", axisName).
		Str("type", "DimensionError")
}

// NewDimensionError は新しいDimensionErrorを作成し、スタックトレースを付与します。
func NewDimensionError(op string, expected, got, axis int) error {
	err := &DimensionError{Op: op, Expected: expected, Got: got, Axis: axis}
	return errors.WithStack(err)
}

// ValidationError は入力パラメータの検証に失敗した場合のエラーです。
type ValidationError struct {
	ParamName string
	Reason    string
	Value     interface{}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("wineq: validation failed for parameter '%s': %s (got: %v)", e.ParamName, e.Reason, e.Value)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *ValidationError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("param_name", e.ParamName).
		Str("reason", e.Reason).
		Interface("value", e.Value).
		Str("type", "ValidationError")
}

// NewValidationError は新しいValidationErrorを作成し、スタックトレースを付与します。
func NewValidationError(param, reason string, value interface{}) error {
	err := &ValidationError{ParamName: param, Reason: reason, Value: value}
	return errors.WithStack(err)
}

// ValueError は引数の値が不適切または不正な場合に発生するエラーです。
type ValueError struct {
	Op      string
	Message string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("wineq: %s: %s", e.Op, e.Message)
}

// NewValueError は新しいValueErrorを作成し、スタックトレースを付与します。
func NewValueError(op, message string) error {
	err := &ValueError{Op: op, Message: message}
	return errors.WithStack(err)
}

// ModelError は機械学習モデルに関する一般的なエラーです。
type ModelError struct {
	Op   string
	Kind string
	Err  error
}

func (e *ModelError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("wineq: %s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("wineq: %s: %s", e.Op, e.Kind)
}

func (e *ModelError) Unwrap() error {
	return e.Err
}

// NewModelError は新しいModelErrorを作成し、スタックトレースを付与します。
func NewModelError(op, kind string, err error) error {
	modelErr := &ModelError{Op: op, Kind: kind, Err: err}
	return errors.WithStack(modelErr)
}

// ===========================================================================
//
//	cockroachdb/errors ラッパー関数
//
// ===========================================================================

// Is はエラーが特定のターゲットエラーかどうかを判定します。
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As はエラーが特定の型にキャスト可能かどうかを判定します。
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap は既存のエラーをメッセージ付きでラップします。
func Wrap(err error, message string) error {
	return errors.Wrap(err, message)
}

// Wrapf は既存のエラーをフォーマット文字列でラップします。
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// New は新しいエラーを作成します。
func New(message string) error {
	return errors.New(message)
}

// Newf は新しいフォーマット済みエラーを作成します。
func Newf(format string, args ...interface{}) error {
	return errors.Newf(format, args...)
}

// WithStack はエラーにスタックトレースを付与します。
func WithStack(err error) error {
	return errors.WithStack(err)
}

// ===========================================================================
//
//	共通エラー変数
//
// ===========================================================================

var (
	// ErrNotImplemented は機能が未実装の場合のエラーです。
	ErrNotImplemented = New("not implemented")

	// ErrEmptyData は空のデータが渡された場合のエラーです。
	ErrEmptyData = New("empty data")
)
