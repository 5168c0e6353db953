// Package handler turns a submitted form into a view: it coerces values,
// validates the checked fields, runs the predictor, and collapses any
// unexpected failure into one generic message.
package handler

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/crimson-sun/cardio/internal/engine/chart"
	"github.com/crimson-sun/cardio/internal/engine/validator"
	"github.com/crimson-sun/cardio/internal/model"
	"github.com/crimson-sun/cardio/internal/output"
)

// InternalErrorText is the only failure detail a caller ever sees.
const InternalErrorText = "Internal Server Error"

// Predictor runs inference for a validated input mapping.
type Predictor interface {
	Predict(input map[string]float64) (model.Prediction, error)
}

// Option configures a Handler.
type Option func(*Handler)

// WithAudit sends an assessment record for every handled request to o.
func WithAudit(o output.Output) Option {
	return func(h *Handler) { h.audit = o }
}

// WithLogger replaces the default slog logger.
func WithLogger(l *slog.Logger) Option {
	return func(h *Handler) { h.logger = l }
}

// Handler maps prediction requests to views. It is safe for concurrent use.
type Handler struct {
	predictor Predictor
	audit     output.Output
	logger    *slog.Logger
	now       func() time.Time
}

// New creates a Handler over p.
func New(p Predictor, opts ...Option) *Handler {
	h := &Handler{
		predictor: p,
		audit:     output.Nop{},
		logger:    slog.Default(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// HandlePredict processes one submitted form. It always returns a view:
// a verdict with chart, a validation warning, or the generic error.
func (h *Handler) HandlePredict(ctx context.Context, form map[string]string) (view model.View) {
	reqID := RequestID(ctx)
	log := h.logger.With("request_id", reqID)
	rec := model.Assessment{RequestID: reqID, Timestamp: h.now()}
	values := copyForm(form)
	state := StateReceived

	defer func() {
		if r := recover(); r != nil {
			view = h.fail(log, &rec, values, state, fmt.Errorf("panic: %v", r))
		}
		h.finish(ctx, log, rec)
	}()

	state = StateCoercing
	input, err := Coerce(form)
	if err != nil {
		return h.fail(log, &rec, values, state, err)
	}
	rec.Inputs = input
	log.Info("received input", "input", input)

	state = StateValidating
	res, err := validator.Validate(input)
	if err != nil {
		return h.fail(log, &rec, values, state, err)
	}
	if !res.Valid {
		state = StateRejected
		rec.Outcome = model.OutcomeRejected
		rec.Reason = res.Reason
		log.Info("input rejected", "reason", res.Reason)
		return model.View{Text: res.Reason, Color: model.ColorWarning, Values: values}
	}

	state = StatePredicting
	pred, err := h.predictor.Predict(input)
	if err != nil {
		return h.fail(log, &rec, values, state, err)
	}

	state = StateRendered
	label := pred.Label
	probs := pred.Probabilities
	rec.Outcome = model.OutcomePredicted
	rec.Label = &label
	rec.Verdict = pred.Text
	rec.Probabilities = probs[:]
	log.Info("prediction served", "verdict", pred.Text, "p_healthy", probs[0], "p_disease", probs[1])

	return model.View{
		Text:          pred.Text,
		Color:         verdictColor(pred.Text),
		Chart:         encodeChart(pred.Chart),
		Probabilities: &probs,
		Values:        values,
	}
}

// HandleUnreadable answers a request whose form body could not be decoded.
// It produces the generic error view and audit record, like any other
// failure.
func (h *Handler) HandleUnreadable(ctx context.Context, cause error) model.View {
	reqID := RequestID(ctx)
	log := h.logger.With("request_id", reqID)
	rec := model.Assessment{RequestID: reqID, Timestamp: h.now()}

	view := h.fail(log, &rec, map[string]string{}, StateReceived, fmt.Errorf("read form: %w", cause))
	h.finish(ctx, log, rec)
	return view
}

// finish marks the request responded and writes its audit record.
func (h *Handler) finish(ctx context.Context, log *slog.Logger, rec model.Assessment) {
	log.Debug("request finished", "state", StateResponded.String(), "outcome", rec.Outcome)
	if err := h.audit.Write(ctx, rec); err != nil {
		log.Warn("audit write failed", "error", err)
	}
}

// fail logs the cause and returns the generic error view.
func (h *Handler) fail(log *slog.Logger, rec *model.Assessment, values map[string]string, at State, err error) model.View {
	log.Error("prediction request failed", "state", at.String(), "error", err)
	rec.Outcome = model.OutcomeFailed
	rec.Label = nil
	rec.Verdict = ""
	rec.Probabilities = nil
	return model.View{Text: InternalErrorText, Color: model.ColorDanger, Values: values}
}

func verdictColor(text string) string {
	if strings.Contains(text, "High") {
		return model.ColorDanger
	}
	return model.ColorSafe
}

func encodeChart(png []byte) string {
	if len(png) == 0 {
		return ""
	}
	return chart.Base64(png)
}

func copyForm(form map[string]string) map[string]string {
	out := make(map[string]string, len(form))
	for k, v := range form {
		out[k] = v
	}
	return out
}
