// internal/repository/postgres/campaign_repository.go
package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/samhanlabs/gmvboard/internal/domain"
)

type CampaignRepository struct {
	db *DB
}

func NewCampaignRepository(db *DB) *CampaignRepository {
	return &CampaignRepository{db: db}
}

func (r *CampaignRepository) WithTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	return r.db.WithTx(ctx, fn)
}

// Upsert writes one campaign record keyed by (campaign_id, report_date):
// insert if absent, otherwise overwrite every mutable measure and
// provenance field in place. Returns whether the row was inserted.
//
// roas is a generated column owned by the database and is never supplied
// here. The xmax trick distinguishes a fresh insert from a conflict update.
func (r *CampaignRepository) Upsert(ctx context.Context, tx *sqlx.Tx, rec *domain.CampaignRecord) (bool, error) {
	query := `
		INSERT INTO campaign_records (
			campaign_id, campaign_group, campaign_name, report_date, campaign_type,
			cost, net_cost, live_views, orders_sku, gross_revenue, roi, currency,
			uploaded_at, uploaded_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW(), $13)
		ON CONFLICT (campaign_id, report_date)
		DO UPDATE SET
			campaign_group = EXCLUDED.campaign_group,
			campaign_name  = EXCLUDED.campaign_name,
			campaign_type  = EXCLUDED.campaign_type,
			cost           = EXCLUDED.cost,
			net_cost       = EXCLUDED.net_cost,
			live_views     = EXCLUDED.live_views,
			orders_sku     = EXCLUDED.orders_sku,
			gross_revenue  = EXCLUDED.gross_revenue,
			roi            = EXCLUDED.roi,
			currency       = EXCLUDED.currency,
			uploaded_at    = NOW(),
			uploaded_by    = EXCLUDED.uploaded_by
		RETURNING (xmax = 0) AS inserted
	`

	var inserted bool
	err := tx.QueryRowContext(ctx, query,
		rec.CampaignID,
		rec.CampaignGroup,
		rec.CampaignName,
		rec.ReportDate,
		rec.CampaignType,
		rec.Cost,
		rec.NetCost,
		rec.LiveViews,
		rec.OrdersSKU,
		rec.GrossRevenue,
		rec.ROI,
		rec.Currency,
		rec.UploadedBy,
	).Scan(&inserted)
	if err != nil {
		return false, fmt.Errorf("failed to upsert campaign %d for %s: %w", rec.CampaignID, rec.ReportDate, err)
	}
	return inserted, nil
}

// DeleteByDate removes every record for one report date, optionally
// restricted to one pipeline.
func (r *CampaignRepository) DeleteByDate(ctx context.Context, reportDate string, typ domain.CampaignType) (int64, error) {
	query := `DELETE FROM campaign_records WHERE report_date = $1`
	args := []any{reportDate}
	if typ != "" {
		query += ` AND campaign_type = $2`
		args = append(args, typ)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to delete records for %s: %w", reportDate, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted rows: %w", err)
	}
	return n, nil
}

// ListByDate returns every record for one report date, newest upload first.
func (r *CampaignRepository) ListByDate(ctx context.Context, reportDate string, typ domain.CampaignType) ([]domain.CampaignRecord, error) {
	query := `
		SELECT id, campaign_id, campaign_group, campaign_name,
		       to_char(report_date, 'YYYY-MM-DD') AS report_date, campaign_type,
		       cost, net_cost, live_views, orders_sku, gross_revenue, roi, roas,
		       currency, uploaded_at, uploaded_by
		FROM campaign_records
		WHERE report_date = $1
	`
	args := []any{reportDate}
	if typ != "" {
		query += ` AND campaign_type = $2`
		args = append(args, typ)
	}
	query += ` ORDER BY campaign_group, campaign_id`

	records := []domain.CampaignRecord{}
	if err := r.db.SelectContext(ctx, &records, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list records for %s: %w", reportDate, err)
	}
	return records, nil
}

func dashboardWhere(filter *domain.DashboardFilter) (string, []any) {
	var clauses []string
	var args []any

	if filter != nil {
		if filter.From != "" {
			args = append(args, filter.From)
			clauses = append(clauses, fmt.Sprintf("report_date >= $%d", len(args)))
		}
		if filter.To != "" {
			args = append(args, filter.To)
			clauses = append(clauses, fmt.Sprintf("report_date <= $%d", len(args)))
		}
		if filter.CampaignType != "" {
			args = append(args, filter.CampaignType)
			clauses = append(clauses, fmt.Sprintf("campaign_type = $%d", len(args)))
		}
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// GetSummary aggregates the KPI headline numbers for the dashboard.
func (r *CampaignRepository) GetSummary(ctx context.Context, filter *domain.DashboardFilter) (*domain.DashboardSummary, error) {
	where, args := dashboardWhere(filter)
	query := `
		SELECT COUNT(*)                          AS record_count,
		       COALESCE(SUM(cost), 0)            AS total_cost,
		       COALESCE(SUM(net_cost), 0)        AS total_net_cost,
		       COALESCE(SUM(gross_revenue), 0)   AS total_revenue,
		       COALESCE(SUM(orders_sku), 0)      AS total_orders,
		       COALESCE(AVG(roas), 0)            AS average_roas
		FROM campaign_records` + where

	var summary domain.DashboardSummary
	if err := r.db.GetContext(ctx, &summary, query, args...); err != nil {
		return nil, fmt.Errorf("failed to get dashboard summary: %w", err)
	}
	return &summary, nil
}

// GetTrend returns the per-day cost/revenue/orders series.
func (r *CampaignRepository) GetTrend(ctx context.Context, filter *domain.DashboardFilter) ([]domain.TrendPoint, error) {
	where, args := dashboardWhere(filter)
	query := `
		SELECT to_char(report_date, 'YYYY-MM-DD') AS date,
		       COALESCE(SUM(cost), 0)             AS cost,
		       COALESCE(SUM(gross_revenue), 0)    AS revenue,
		       COALESCE(SUM(orders_sku), 0)       AS orders
		FROM campaign_records` + where + `
		GROUP BY report_date
		ORDER BY report_date
	`

	points := []domain.TrendPoint{}
	if err := r.db.SelectContext(ctx, &points, query, args...); err != nil {
		return nil, fmt.Errorf("failed to get trend: %w", err)
	}
	return points, nil
}

// GetTopGroups rolls records up by campaign group, biggest revenue first.
func (r *CampaignRepository) GetTopGroups(ctx context.Context, filter *domain.DashboardFilter, limit int) ([]domain.GroupSummary, error) {
	if limit <= 0 {
		limit = 10
	}

	where, args := dashboardWhere(filter)
	args = append(args, limit)
	query := fmt.Sprintf(`
		SELECT campaign_group,
		       COALESCE(SUM(cost), 0)           AS cost,
		       COALESCE(SUM(gross_revenue), 0)  AS revenue,
		       COALESCE(SUM(orders_sku), 0)     AS orders,
		       CASE WHEN SUM(cost) > 0
		            THEN SUM(gross_revenue) / SUM(cost)
		            ELSE 0 END                  AS roas
		FROM campaign_records%s
		GROUP BY campaign_group
		ORDER BY revenue DESC
		LIMIT $%d
	`, where, len(args))

	groups := []domain.GroupSummary{}
	if err := r.db.SelectContext(ctx, &groups, query, args...); err != nil {
		return nil, fmt.Errorf("failed to get group summaries: %w", err)
	}
	return groups, nil
}
