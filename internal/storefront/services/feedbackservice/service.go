package feedbackservice

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/softcart/storefront_control/internal/pkg/apperrors"
	"github.com/softcart/storefront_control/internal/storefront/domain/models"
	"github.com/softcart/storefront_control/pkg/logger"
)

const resourceFeedback = "feedback"

type FeedbackService struct {
	feedbackRepo Repository
	audit        Audit
	lg           logger.Logger
}

type Repository interface {
	CreateFeedback(context.Context, models.Feedback) (int64, error)
	SetPublished(context.Context, int64, bool) error
	DeleteFeedback(context.Context, int64) (models.Feedback, error)
	ListFeedback(context.Context, bool) ([]models.Feedback, error)
}

type Audit interface {
	Record(context.Context, models.AuditEntry) error
}

type SubmitRequest struct {
	CustomerName string `json:"customer_name"` //nolint:tagliatelle
	Email        string `json:"email"`
	Message      string `json:"message"`
	Rating       int    `json:"rating"`
}

func New(feedbackRepo Repository, audit Audit, lg logger.Logger) *FeedbackService {
	return &FeedbackService{
		feedbackRepo: feedbackRepo,
		audit:        audit,
		lg:           lg,
	}
}

// Submit is the public entry point; new feedback stays unpublished
// until a manager approves it, and customers leave no audit trail.
func (fs *FeedbackService) Submit(ctx context.Context, req SubmitRequest) (models.Feedback, error) {
	req.CustomerName = strings.TrimSpace(req.CustomerName)
	req.Email = strings.TrimSpace(req.Email)
	req.Message = strings.TrimSpace(req.Message)

	var msgs []string

	if req.CustomerName == "" {
		msgs = append(msgs, "customer name must not be empty")
	}

	if req.Message == "" {
		msgs = append(msgs, "message must not be empty")
	}

	if req.Rating < 1 || req.Rating > 5 {
		msgs = append(msgs, "rating must be between 1 and 5")
	}

	if len(msgs) != 0 {
		return models.Feedback{}, apperrors.NewValidation(msgs)
	}

	f := models.Feedback{ //nolint:exhaustruct
		CustomerName: req.CustomerName,
		Email:        req.Email,
		Message:      req.Message,
		Rating:       req.Rating,
		Published:    false,
		CreatedAt:    time.Now(),
	}

	id, err := fs.feedbackRepo.CreateFeedback(ctx, f)
	if err != nil {
		return models.Feedback{}, fmt.Errorf("create feedback error: %w", err)
	}

	f.ID = id

	return f, nil
}

func (fs *FeedbackService) SetPublished(ctx context.Context, actor string, id int64, published bool) error {
	if err := fs.feedbackRepo.SetPublished(ctx, id, published); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.ErrNotFound
		}

		return fmt.Errorf("set published error: %w", err)
	}

	fs.recordAudit(ctx, actor, models.ActionUpdate, id, map[string]interface{}{
		"published": published,
	})

	return nil
}

func (fs *FeedbackService) DeleteFeedback(ctx context.Context, actor string, id int64) error {
	f, err := fs.feedbackRepo.DeleteFeedback(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.ErrNotFound
		}

		return fmt.Errorf("delete feedback error: %w", err)
	}

	fs.recordAudit(ctx, actor, models.ActionDelete, id, map[string]interface{}{
		"customer": f.CustomerName,
		"rating":   f.Rating,
	})

	return nil
}

func (fs *FeedbackService) ListFeedback(ctx context.Context, publicView bool) ([]models.Feedback, error) {
	items, err := fs.feedbackRepo.ListFeedback(ctx, publicView)
	if err != nil {
		return nil, fmt.Errorf("list feedback error: %w", err)
	}

	return items, nil
}

func (fs *FeedbackService) recordAudit(ctx context.Context, actor, action string, id int64, metadata map[string]interface{}) {
	entry := models.AuditEntry{
		ID:         uuid.NewString(),
		Actor:      actor,
		Action:     action,
		Resource:   resourceFeedback,
		ResourceID: strconv.FormatInt(id, 10),
		Metadata:   metadata,
		CreatedAt:  time.Now(),
	}

	if err := fs.audit.Record(ctx, entry); err != nil {
		fs.lg.Errorf("audit record error: %s", err.Error())
	}
}
