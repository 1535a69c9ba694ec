package analysis

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	appreports "github.com/bryanwahyu/automaton-secops/internal/application/reports"
	domain "github.com/bryanwahyu/automaton-secops/internal/domain/analysis"
	"github.com/bryanwahyu/automaton-secops/internal/domain/identity"
	"github.com/bryanwahyu/automaton-secops/internal/domain/reports"
)

// Persister stores a successful analysis.
type Persister interface {
	Persist(ctx context.Context, cmd appreports.PersistCommand) (*reports.Report, error)
}

// Service runs the analysis use case: validate, dispatch to the gateway and
// persist the result on a best-effort basis.
type Service struct {
	Gateway   domain.Gateway
	Reports   Persister
	Sequencer *Sequencer
	// AllowAnonymous lets unauthenticated callers analyze; their results are
	// never persisted.
	AllowAnonymous bool
	Log            logrus.FieldLogger
}

// Outcome is what the caller renders. Content is always set on success;
// PersistError is a secondary notice and never hides Content.
type Outcome struct {
	Category     domain.Category `json:"category"`
	Content      string          `json:"content"`
	Report       *reports.Report `json:"report,omitempty"`
	Persisted    bool            `json:"persisted"`
	PersistError string          `json:"persist_error,omitempty"`
	Token        uint64          `json:"token,omitempty"`
}

// Analyze dispatches req for user (nil when unauthenticated).
func (s *Service) Analyze(ctx context.Context, user *identity.User, req domain.Request) (Outcome, error) {
	if err := req.Validate(); err != nil {
		return Outcome{}, err
	}
	if user == nil && !s.AllowAnonymous {
		return Outcome{}, domain.ErrUnauthenticated
	}

	log := s.log().WithField("category", req.Category)
	if user != nil {
		log = log.WithField("user_id", user.ID)
	}

	dispatchCtx := ctx
	var ticket *Ticket
	if user != nil && s.Sequencer != nil {
		var t Ticket
		dispatchCtx, t = s.Sequencer.Begin(ctx, user.ID)
		defer t.Release()
		ticket = &t
	}

	log.Info("processing analysis request")
	res, err := s.Gateway.Analyze(dispatchCtx, req)
	if ticket != nil && !ticket.Current() {
		log.WithField("token", ticket.Token).Info("discarding superseded analysis")
		return Outcome{}, domain.ErrSuperseded
	}
	if err != nil {
		log.WithError(err).Warn("analysis failed")
		return Outcome{}, err
	}

	out := Outcome{Category: req.Category, Content: res.Content}
	if ticket != nil {
		out.Token = ticket.Token
	}
	if user == nil || s.Reports == nil {
		return out, nil
	}

	rep, perr := s.Reports.Persist(ctx, appreports.PersistCommand{
		OwnerID:          user.ID,
		Category:         req.Category,
		RawContent:       req.RawContent,
		GeneratedContent: res.Content,
	})
	if perr != nil {
		log.WithError(perr).Error("failed to save report")
		out.PersistError = fmt.Sprintf("analysis ready but not saved: %v", perr)
		return out, nil
	}
	out.Report = rep
	out.Persisted = true
	log.WithField("report_id", rep.ID).Info("analysis saved to report vault")
	return out, nil
}

// IsGatewayFailure reports whether err came from the remote endpoint.
func IsGatewayFailure(err error) bool {
	var gw *domain.GatewayError
	return errors.Is(err, domain.ErrRateLimited) ||
		errors.Is(err, domain.ErrQuotaExhausted) ||
		errors.As(err, &gw)
}

func (s *Service) log() logrus.FieldLogger {
	if s.Log == nil {
		return logrus.StandardLogger()
	}
	return s.Log
}
