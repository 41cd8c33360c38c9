// internal/ingest/pipeline.go
package ingest

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/samhanlabs/gmvboard/internal/domain"
)

var reportDateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// ValidateReportDate checks the batch date before any parsing begins.
func ValidateReportDate(date string) error {
	if !reportDateRe.MatchString(date) {
		return fmt.Errorf("report date %q is not in YYYY-MM-DD format", date)
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return fmt.Errorf("report date %q is not a valid calendar date", date)
	}
	return nil
}

// Strategy captures where the Live and Product pipelines diverge: group
// extraction policy, display-name normalization, and the Live-only
// live_views measure. Everything else is shared.
type Strategy struct {
	Type domain.CampaignType

	// ExtractGroup derives the campaign group for one row.
	ExtractGroup func(v Vocabulary, row RawRow, name string, baseNames []string) (GroupResult, error)

	// NormalizeName rewrites the stored display name; nil keeps it as-is.
	NormalizeName func(name string, g GroupResult) string

	// HasLiveViews enables the extra Live-only measure field.
	HasLiveViews bool
}

// LiveStrategy applies the bracket grammar and guarantees every stored
// Live name carries its group marker.
func LiveStrategy() Strategy {
	return Strategy{
		Type: domain.CampaignTypeLive,
		ExtractGroup: func(_ Vocabulary, _ RawRow, name string, baseNames []string) (GroupResult, error) {
			return ExtractGroup(name, baseNames)
		},
		NormalizeName: func(name string, g GroupResult) string {
			if g.HasMarker {
				return name
			}
			return fmt.Sprintf("[%s] %s", g.Group, name)
		},
		HasLiveViews: true,
	}
}

// ProductStrategy skips the bracket grammar entirely: an explicit
// campaign_group column wins, otherwise the group is the campaign name.
// An intentional simplification versus the Live pipeline.
func ProductStrategy() Strategy {
	return Strategy{
		Type: domain.CampaignTypeProduct,
		ExtractGroup: func(v Vocabulary, row RawRow, name string, _ []string) (GroupResult, error) {
			if g := v.ResolveString(row, FieldCampaignGroup); g != "" {
				return GroupResult{Group: g, HasMarker: true}, nil
			}
			return GroupResult{Group: name}, nil
		},
	}
}

// Processor runs one batch of raw rows through normalization, grouping,
// row-level validation, and batch-level conflict detection.
type Processor struct {
	voc   Vocabulary
	strat Strategy
}

func NewProcessor(voc Vocabulary, strat Strategy) *Processor {
	return &Processor{voc: voc, strat: strat}
}

// Process is sequential on purpose: conflict detection is first-seen-group
// wins and the base-name fallback depends on rows already scanned, so row
// order matters.
func (p *Processor) Process(rows []RawRow, reportDate string) (*Batch, *Rejection) {
	batch := &Batch{}

	var baseNames []string
	groupsSeen := make(map[int64][]string)
	var idOrder []int64

	for i, raw := range rows {
		// Header occupies row 1 in the source sheet.
		rowNum := i + 2
		row := NormalizeRow(raw)

		idVal, ok := p.voc.Resolve(row, FieldCampaignID)
		if !ok {
			batch.Errors = append(batch.Errors, fmt.Sprintf("row %d: missing campaign id", rowNum))
			continue
		}
		id := p.voc.CoerceInt(idVal, FieldCampaignID)
		if id <= 0 {
			batch.Errors = append(batch.Errors, fmt.Sprintf("row %d: invalid campaign id %q", rowNum, stringify(idVal)))
			continue
		}

		name := p.voc.ResolveString(row, FieldCampaignName)
		if name == "" {
			batch.Errors = append(batch.Errors, fmt.Sprintf("row %d: missing campaign name", rowNum))
			continue
		}

		g, err := p.strat.ExtractGroup(p.voc, row, name, baseNames)
		if err != nil {
			batch.Errors = append(batch.Errors, fmt.Sprintf("row %d: %v", rowNum, err))
			continue
		}
		if g.Warning != "" {
			batch.Warnings = append(batch.Warnings, fmt.Sprintf("row %d: %s", rowNum, g.Warning))
		}

		// Single-word names become fallback base names for later rows.
		if !strings.ContainsAny(name, " \t") {
			baseNames = append(baseNames, name)
		}

		storedName := name
		if p.strat.NormalizeName != nil {
			storedName = p.strat.NormalizeName(name, g)
		}

		costCell, _ := p.voc.Resolve(row, FieldCost)
		netCell, _ := p.voc.Resolve(row, FieldNetCost)
		ordersCell, _ := p.voc.Resolve(row, FieldOrdersSKU)
		revenueCell, _ := p.voc.Resolve(row, FieldGrossRevenue)
		roiCell, _ := p.voc.Resolve(row, FieldROI)

		rec := domain.CampaignRecord{
			CampaignID:    id,
			CampaignGroup: g.Group,
			CampaignName:  storedName,
			ReportDate:    reportDate,
			CampaignType:  p.strat.Type,
			Cost:          p.voc.CoerceNumber(costCell, FieldCost),
			NetCost:       p.voc.CoerceNumber(netCell, FieldNetCost),
			OrdersSKU:     p.voc.CoerceInt(ordersCell, FieldOrdersSKU),
			GrossRevenue:  p.voc.CoerceNumber(revenueCell, FieldGrossRevenue),
			ROI:           p.voc.CoerceNumber(roiCell, FieldROI),
			Currency:      p.voc.DetectCurrency(costCell),
		}
		if p.strat.HasLiveViews {
			viewsCell, _ := p.voc.Resolve(row, FieldLiveViews)
			rec.LiveViews = p.voc.CoerceInt(viewsCell, FieldLiveViews)
		}

		if seen, ok := groupsSeen[id]; !ok {
			groupsSeen[id] = []string{g.Group}
			idOrder = append(idOrder, id)
		} else if !containsString(seen, g.Group) {
			groupsSeen[id] = append(seen, g.Group)
		}

		batch.Records = append(batch.Records, rec)
	}

	// One group per campaign id is a cross-row invariant; a single
	// violation poisons group roll-ups, so the whole batch is rejected
	// with every conflict enumerated.
	var conflicts []string
	for _, id := range idOrder {
		groups := groupsSeen[id]
		if len(groups) < 2 {
			continue
		}
		quoted := make([]string, len(groups))
		for j, gr := range groups {
			quoted[j] = fmt.Sprintf("%q", gr)
		}
		conflicts = append(conflicts, fmt.Sprintf("campaign %d maps to multiple groups: %s", id, strings.Join(quoted, ", ")))
	}
	if len(conflicts) > 0 {
		return nil, &Rejection{
			Reason:    "campaign group conflicts detected",
			Errors:    batch.Errors,
			Conflicts: conflicts,
		}
	}

	if len(batch.Records) == 0 {
		return nil, &Rejection{
			Reason: "no valid rows in batch",
			Errors: batch.Errors,
		}
	}

	return batch, nil
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
