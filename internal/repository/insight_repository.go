package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"career-crafter/internal/database"
	"career-crafter/internal/domain/insight"
)

type PostgresInsightRepository struct {
	db database.DB
}

func NewPostgresInsightRepository(db database.DB) *PostgresInsightRepository {
	return &PostgresInsightRepository{db: db}
}

const insightColumns = `industry_key, salary_ranges, growth_rate, demand_level, top_skills,
	market_outlook, key_trends, recommended_skills, last_updated, next_update`

func (r *PostgresInsightRepository) FindByKey(ctx context.Context, key string) (insight.Record, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+insightColumns+`
		 FROM industry_insights
		 WHERE industry_key = $1`,
		insight.NormalizeKey(key),
	)
	rec, err := scanInsight(row)
	if err != nil {
		if database.IsNoRows(err) {
			return insight.Record{}, insight.ErrNotFound
		}
		return insight.Record{}, err
	}
	return rec, nil
}

func (r *PostgresInsightRepository) Upsert(ctx context.Context, rec insight.Record) error {
	if rec.Placeholder {
		return fmt.Errorf("refusing to persist placeholder insight for %q", rec.IndustryKey)
	}
	bands, err := json.Marshal(rec.SalaryBands)
	if err != nil {
		return fmt.Errorf("marshal salary ranges: %w", err)
	}

	_, err = r.db.Exec(ctx,
		`INSERT INTO industry_insights (`+insightColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 ON CONFLICT (industry_key) DO UPDATE SET
			salary_ranges = EXCLUDED.salary_ranges,
			growth_rate = EXCLUDED.growth_rate,
			demand_level = EXCLUDED.demand_level,
			top_skills = EXCLUDED.top_skills,
			market_outlook = EXCLUDED.market_outlook,
			key_trends = EXCLUDED.key_trends,
			recommended_skills = EXCLUDED.recommended_skills,
			last_updated = EXCLUDED.last_updated,
			next_update = EXCLUDED.next_update`,
		insight.NormalizeKey(rec.IndustryKey),
		bands,
		rec.GrowthRatePercent,
		string(rec.DemandLevel),
		rec.TopSkills,
		string(rec.MarketOutlook),
		rec.KeyTrends,
		rec.RecommendedSkills,
		rec.LastUpdated.UTC(),
		rec.NextUpdate.UTC(),
	)
	return err
}

func (r *PostgresInsightRepository) DeleteByKey(ctx context.Context, key string) error {
	n, err := r.db.Exec(ctx, `DELETE FROM industry_insights WHERE industry_key = $1`, insight.NormalizeKey(key))
	if err != nil {
		return err
	}
	if n == 0 {
		return insight.ErrNotFound
	}
	return nil
}

func (r *PostgresInsightRepository) DeleteAll(ctx context.Context) (int64, error) {
	return r.db.Exec(ctx, `DELETE FROM industry_insights`)
}

func (r *PostgresInsightRepository) ListKeys(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx, `SELECT industry_key FROM industry_insights ORDER BY industry_key ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]string, 0)
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		out = append(out, k)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanInsight(row database.Row) (insight.Record, error) {
	var (
		rec     insight.Record
		bands   []byte
		demand  string
		outlook string
	)
	err := row.Scan(
		&rec.IndustryKey,
		&bands,
		&rec.GrowthRatePercent,
		&demand,
		&rec.TopSkills,
		&outlook,
		&rec.KeyTrends,
		&rec.RecommendedSkills,
		&rec.LastUpdated,
		&rec.NextUpdate,
	)
	if err != nil {
		return insight.Record{}, err
	}
	if len(bands) > 0 {
		if err := json.Unmarshal(bands, &rec.SalaryBands); err != nil {
			return insight.Record{}, fmt.Errorf("decode salary ranges for %q: %w", rec.IndustryKey, err)
		}
	}
	rec.DemandLevel = insight.ParseDemandLevel(demand)
	rec.MarketOutlook = insight.ParseMarketOutlook(outlook)
	return rec, nil
}
