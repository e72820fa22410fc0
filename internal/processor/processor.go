// Package processor runs automated QC analysis over submitted ratings.
package processor

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/qcpilot/qcpilot/internal/events"
	"github.com/qcpilot/qcpilot/internal/guidelines"
	"github.com/qcpilot/qcpilot/internal/interpret"
	"github.com/qcpilot/qcpilot/internal/risk"
	"github.com/qcpilot/qcpilot/internal/session"
	"github.com/qcpilot/qcpilot/internal/store"
)

// Processor consumes rating submissions, runs the detailed QC analysis,
// and opens QC reviews for findings that warrant one.
type Processor struct {
	store    *store.Store
	analyzer *session.Analyzer
	events   *events.Client
	logger   *slog.Logger
}

func New(s *store.Store, analyzer *session.Analyzer, ev *events.Client, logger *slog.Logger) *Processor {
	return &Processor{
		store:    s,
		analyzer: analyzer,
		events:   ev,
		logger:   logger,
	}
}

// HandleRatingSubmitted is the NATS handler for qc.rating.submitted.
func (p *Processor) HandleRatingSubmitted(subject string, data []byte) {
	ctx := context.Background()

	var evt events.RatingSubmittedEvent
	if err := json.Unmarshal(data, &evt); err != nil {
		p.logger.Error("failed to parse rating event", "error", err)
		return
	}

	ratingID, err := uuid.Parse(evt.RatingID)
	if err != nil {
		p.logger.Error("invalid rating id", "rating_id", evt.RatingID, "error", err)
		return
	}

	rating, err := p.store.GetRating(ctx, ratingID)
	if err != nil {
		p.logger.Error("failed to load rating", "rating_id", ratingID, "error", err)
		return
	}

	task, err := p.store.GetTask(ctx, rating.TaskID)
	if err != nil {
		p.logger.Error("failed to load task", "task_id", rating.TaskID, "error", err)
		return
	}

	p.logger.Info("analyzing rating",
		"rating_id", ratingID,
		"task_id", task.ID,
		"rater_id", rating.RaterID,
	)

	res := p.analyzer.AnalyzeDetailed(ctx,
		reviewContent(task, rating),
		session.AnalysisTypeQC,
		session.QCSystemPrompt,
		p.resolveGuidelines(ctx, task.ProjectID),
	)

	flagged := shouldFlag(res.Action)
	if flagged {
		reviewID, err := p.store.CreateQCReview(ctx, store.QCReview{
			RatingID:   ratingID,
			RiskScore:  risk.Score(res.Severity, res.Confidence),
			FlagReason: res.Reasoning,
			Evidence:   res.Sources,
			Priority:   risk.ReviewPriority(res.Severity, res.Confidence),
			Status:     "pending",
		})
		if err != nil {
			p.logger.Error("failed to create qc review", "rating_id", ratingID, "error", err)
		} else {
			if err := p.events.Publish(events.SubjectReviewFlagged, map[string]any{
				"review_id": reviewID.String(),
				"rating_id": ratingID.String(),
				"rater_id":  rating.RaterID.String(),
				"action":    res.Action,
				"severity":  res.Severity,
				"priority":  risk.ReviewPriority(res.Severity, res.Confidence),
			}); err != nil {
				p.logger.Error("failed to publish review flagged", "error", err)
			}
		}
	}

	if err := p.events.Publish(events.SubjectAnalysisCompleted, map[string]any{
		"rating_id":  ratingID.String(),
		"task_id":    task.ID.String(),
		"confidence": res.Confidence,
		"category":   res.Category,
		"severity":   res.Severity,
		"action":     res.Action,
		"flagged":    flagged,
	}); err != nil {
		p.logger.Error("failed to publish analysis completed", "error", err)
	}

	p.logger.Info("rating analyzed",
		"rating_id", ratingID,
		"action", res.Action,
		"confidence", res.Confidence,
		"flagged", flagged,
	)
}

// resolveGuidelines prefers the organization's indexed knowledge-base
// document and falls back to the seed QC guidelines.
func (p *Processor) resolveGuidelines(ctx context.Context, projectID uuid.UUID) string {
	orgID := uuid.Nil
	if project, err := p.store.GetProject(ctx, projectID); err == nil {
		orgID = project.OrganizationID
	}

	content, err := p.store.LatestIndexedContent(ctx, orgID)
	if err != nil {
		p.logger.Debug("no indexed guidelines, using seed document", "project_id", projectID)
		return guidelines.QCContent
	}
	return content
}

// reviewContent renders the task and the rater's assessment as one block
// for the analysis prompt.
func reviewContent(task *store.Task, rating *store.Rating) string {
	assessment, err := json.Marshal(rating.RatingData)
	if err != nil {
		assessment = []byte("{}")
	}

	content := fmt.Sprintf("Task content:\n%s\n\nRater assessment:\n%s", task.Content, assessment)
	if rating.Comments != "" {
		content += "\n\nRater comments:\n" + rating.Comments
	}
	return content
}

func shouldFlag(action string) bool {
	switch action {
	case interpret.ActionFlagForReview, interpret.ActionReject, interpret.ActionOverrideRating:
		return true
	}
	return false
}
