package handler

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crimson-sun/cardio/internal/engine"
	"github.com/crimson-sun/cardio/internal/engine/classifier"
	"github.com/crimson-sun/cardio/internal/engine/features"
	"github.com/crimson-sun/cardio/internal/engine/testdata"
	"github.com/crimson-sun/cardio/internal/model"
)

// stubPredictor returns a fixed prediction and counts calls.
type stubPredictor struct {
	mu    sync.Mutex
	pred  model.Prediction
	err   error
	panic bool
	calls int
}

func (s *stubPredictor) Predict(map[string]float64) (model.Prediction, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	if s.panic {
		panic("index out of range")
	}
	return s.pred, s.err
}

type recordingOutput struct {
	mu      sync.Mutex
	records []model.Assessment
}

func (r *recordingOutput) Write(_ context.Context, a model.Assessment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, a)
	return nil
}

func (r *recordingOutput) Close() error { return nil }

func highRisk() model.Prediction {
	return model.Prediction{
		Label:         1,
		Text:          engine.VerdictHigh,
		Probabilities: [2]float64{0.2, 0.8},
		Chart:         []byte{0x89, 'P', 'N', 'G'},
	}
}

func newTestHandler(p Predictor) (*Handler, *recordingOutput, *bytes.Buffer) {
	var logs bytes.Buffer
	audit := &recordingOutput{}
	logger := slog.New(slog.NewJSONHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return New(p, WithAudit(audit), WithLogger(logger)), audit, &logs
}

func TestHandlePredictSuccess(t *testing.T) {
	h, audit, _ := newTestHandler(&stubPredictor{pred: highRisk()})

	view := h.HandlePredict(context.Background(), testdata.Form(testdata.Baseline()))

	assert.Equal(t, engine.VerdictHigh, view.Text)
	assert.Equal(t, model.ColorDanger, view.Color)
	assert.True(t, view.HasChart())
	require.NotNil(t, view.Probabilities)
	assert.Equal(t, [2]float64{0.2, 0.8}, *view.Probabilities)
	assert.Equal(t, "55", view.Values["age"])

	require.Len(t, audit.records, 1)
	rec := audit.records[0]
	assert.Equal(t, model.OutcomePredicted, rec.Outcome)
	require.NotNil(t, rec.Label)
	assert.Equal(t, 1, *rec.Label)
	assert.Equal(t, []float64{0.2, 0.8}, rec.Probabilities)
	assert.NotEmpty(t, rec.RequestID)
}

func TestHandlePredictLowRiskIsGreen(t *testing.T) {
	pred := highRisk()
	pred.Label, pred.Text = 0, engine.VerdictLow
	h, _, _ := newTestHandler(&stubPredictor{pred: pred})

	view := h.HandlePredict(context.Background(), testdata.Form(testdata.Baseline()))
	assert.Equal(t, engine.VerdictLow, view.Text)
	assert.Equal(t, model.ColorSafe, view.Color)
}

func TestHandlePredictRejections(t *testing.T) {
	tests := []struct {
		field  string
		value  float64
		reason string
	}{
		{"age", 130, "Invalid Age"},
		{"trestbps", 10, "Invalid Resting Blood Pressure"},
		{"chol", 601, "Invalid Cholesterol Level"},
		{"thalach", 221, "Invalid Maximum Heart Rate"},
	}
	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			p := &stubPredictor{pred: highRisk()}
			h, audit, _ := newTestHandler(p)

			in := testdata.Baseline()
			in[tt.field] = tt.value
			view := h.HandlePredict(context.Background(), testdata.Form(in))

			assert.Equal(t, tt.reason, view.Text)
			assert.Equal(t, model.ColorWarning, view.Color)
			assert.False(t, view.HasChart())
			assert.Nil(t, view.Probabilities)
			assert.Zero(t, p.calls, "no prediction may be attempted")

			require.Len(t, audit.records, 1)
			assert.Equal(t, model.OutcomeRejected, audit.records[0].Outcome)
			assert.Equal(t, tt.reason, audit.records[0].Reason)
		})
	}
}

func TestHandlePredictNonNumericIsInternalError(t *testing.T) {
	p := &stubPredictor{pred: highRisk()}
	h, audit, logs := newTestHandler(p)

	form := testdata.Form(testdata.Baseline())
	form["age"] = "abc"
	view := h.HandlePredict(context.Background(), form)

	assert.Equal(t, InternalErrorText, view.Text)
	assert.Equal(t, model.ColorDanger, view.Color)
	assert.False(t, view.HasChart())
	assert.Zero(t, p.calls)
	assert.Equal(t, "abc", view.Values["age"], "submitted values are echoed back")

	require.Len(t, audit.records, 1)
	assert.Equal(t, model.OutcomeFailed, audit.records[0].Outcome)
	assert.Contains(t, logs.String(), `"state":"coercing"`)
	assert.Contains(t, logs.String(), "not numeric")
}

func TestHandlePredictMissingCheckedField(t *testing.T) {
	h, _, _ := newTestHandler(&stubPredictor{pred: highRisk()})
	form := testdata.Form(testdata.Baseline())
	delete(form, "chol")

	view := h.HandlePredict(context.Background(), form)
	assert.Equal(t, InternalErrorText, view.Text)
	assert.Equal(t, model.ColorDanger, view.Color)
}

func TestHandlePredictPredictorErrorNotLeaked(t *testing.T) {
	cause := errors.New("onnx: inference failed: tensor shape mismatch")
	h, audit, logs := newTestHandler(&stubPredictor{err: cause})

	view := h.HandlePredict(context.Background(), testdata.Form(testdata.Baseline()))

	assert.Equal(t, InternalErrorText, view.Text)
	assert.NotContains(t, view.Text, "tensor")
	assert.Contains(t, logs.String(), "tensor shape mismatch", "cause is logged server-side")
	assert.Contains(t, logs.String(), `"state":"predicting"`)
	require.Len(t, audit.records, 1)
	assert.Equal(t, model.OutcomeFailed, audit.records[0].Outcome)
	assert.Nil(t, audit.records[0].Label)
}

func TestHandlePredictRecoversPanic(t *testing.T) {
	h, audit, logs := newTestHandler(&stubPredictor{panic: true})

	view := h.HandlePredict(context.Background(), testdata.Form(testdata.Baseline()))

	assert.Equal(t, InternalErrorText, view.Text)
	assert.Equal(t, model.ColorDanger, view.Color)
	assert.Contains(t, logs.String(), "index out of range")
	require.Len(t, audit.records, 1)
	assert.Equal(t, model.OutcomeFailed, audit.records[0].Outcome)
}

func TestHandlePredictUsesRequestID(t *testing.T) {
	h, audit, logs := newTestHandler(&stubPredictor{pred: highRisk()})
	ctx := WithRequestID(context.Background(), "req-123")

	h.HandlePredict(ctx, testdata.Form(testdata.Baseline()))

	require.Len(t, audit.records, 1)
	assert.Equal(t, "req-123", audit.records[0].RequestID)
	assert.Contains(t, logs.String(), `"request_id":"req-123"`)
}

func TestHandlePredictEndToEnd(t *testing.T) {
	modelPath, scalerPath, err := testdata.WriteArtifacts(t.TempDir())
	require.NoError(t, err)
	a, err := engine.LoadArtifacts(engine.Paths{Model: modelPath, Scaler: scalerPath})
	require.NoError(t, err)
	defer a.Close()

	h, _, _ := newTestHandler(engine.New(a))
	view := h.HandlePredict(context.Background(), testdata.Form(testdata.Baseline()))

	assert.Contains(t, []string{engine.VerdictHigh, engine.VerdictLow}, view.Text)
	assert.Contains(t, []string{model.ColorDanger, model.ColorSafe}, view.Color)
	assert.True(t, view.HasChart())
}

func TestHandlePredictNonFiniteUncheckedFieldIsInternalError(t *testing.T) {
	coef := make([]float64, len(testdata.Coef))
	coef[features.Index("oldpeak")] = 1
	cls := classifier.NewLogistic(coef, 0)
	h, audit, logs := newTestHandler(engine.New(&engine.Artifacts{Classifier: cls}, engine.WithoutChart()))

	for _, v := range []string{"inf", "-Inf", "NaN"} {
		form := testdata.Form(testdata.Baseline())
		form["oldpeak"] = v
		view := h.HandlePredict(context.Background(), form)

		assert.Equal(t, InternalErrorText, view.Text, "oldpeak=%s", v)
		assert.Equal(t, model.ColorDanger, view.Color)
		assert.Nil(t, view.Probabilities)
	}
	require.Len(t, audit.records, 3)
	for _, rec := range audit.records {
		assert.Equal(t, model.OutcomeFailed, rec.Outcome)
	}
	assert.Contains(t, logs.String(), "non-finite")
}

func TestHandlePredictInfiniteCheckedFieldIsRejected(t *testing.T) {
	h, _, _ := newTestHandler(&stubPredictor{pred: highRisk()})
	form := testdata.Form(testdata.Baseline())
	form["age"] = "inf"

	view := h.HandlePredict(context.Background(), form)
	assert.Equal(t, "Invalid Age", view.Text)
	assert.Equal(t, model.ColorWarning, view.Color)
}

func TestHandleUnreadable(t *testing.T) {
	p := &stubPredictor{pred: highRisk()}
	h, audit, logs := newTestHandler(p)
	ctx := WithRequestID(context.Background(), "req-bad-body")

	view := h.HandleUnreadable(ctx, errors.New(`invalid URL escape "%zz"`))

	assert.Equal(t, InternalErrorText, view.Text)
	assert.Equal(t, model.ColorDanger, view.Color)
	assert.NotContains(t, view.Text, "escape")
	assert.Zero(t, p.calls)

	require.Len(t, audit.records, 1)
	assert.Equal(t, "req-bad-body", audit.records[0].RequestID)
	assert.Equal(t, model.OutcomeFailed, audit.records[0].Outcome)
	assert.Contains(t, logs.String(), `"state":"received"`)
	assert.Contains(t, logs.String(), "invalid URL escape")
}

func TestHandlePredictWithoutAudit(t *testing.T) {
	h := New(&stubPredictor{pred: highRisk()}, WithLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))))
	view := h.HandlePredict(context.Background(), testdata.Form(testdata.Baseline()))
	assert.Equal(t, engine.VerdictHigh, view.Text)
}
