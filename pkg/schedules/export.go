package schedules

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/otwartedane/mcod/pkg/model"
)

// CSVHeader is the header row of exported schedules
var CSVHeader = []string{
	"id",
	"organization_name",
	"dataset_title",
	"format",
	"is_new",
	"is_openness_score_increased",
	"is_quality_improved",
	"description",
	"recommendation_state",
	"recommendation_notes",
	"is_resource_added",
	"resource_link",
}

// ExportCSV writes the schedule items visible to user as CSV
func (s *Service) ExportCSV(ctx context.Context, user *model.User, scheduleID uint, w io.Writer) error {
	items, err := s.Items(ctx, user, scheduleID)
	if err != nil {
		return err
	}
	return WriteCSV(w, items)
}

// WriteCSV writes items as CSV with CSVHeader
func WriteCSV(w io.Writer, items []model.UserScheduleItem) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return err
	}
	for _, it := range items {
		row := []string{
			strconv.FormatUint(uint64(it.ID), 10),
			it.OrganizationName,
			it.DatasetTitle,
			it.Format,
			yesNo(it.IsNew),
			yesNo(it.IsOpennessScoreIncreased),
			yesNo(it.IsQualityImproved),
			it.Description,
			it.RecommendationState.String(),
			it.RecommendationNotes,
			yesNo(it.IsResourceAdded),
			it.ResourceLink,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing item %d: %w", it.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
