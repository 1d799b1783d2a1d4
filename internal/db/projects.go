package db

import (
	"context"
	"fmt"

	"github.com/jonathan/resume-tailor/internal/types"
)

// ListPortfolioProjects returns the catalog in its configured order.
func (db *DB) ListPortfolioProjects(ctx context.Context) ([]types.ProjectTemplate, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT name, description, technologies, github_url, live_url
		 FROM portfolio_projects ORDER BY position, created_at`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list portfolio projects: %w", err)
	}
	defer rows.Close()

	projects := []types.ProjectTemplate{}
	for rows.Next() {
		var p types.ProjectTemplate
		if err := rows.Scan(&p.Name, &p.Description, &p.Technologies, &p.GithubURL, &p.LiveURL); err != nil {
			return nil, fmt.Errorf("failed to scan portfolio project: %w", err)
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// UpsertPortfolioProject inserts or replaces a project by name.
func (db *DB) UpsertPortfolioProject(ctx context.Context, p types.ProjectTemplate, position int) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO portfolio_projects (name, description, technologies, github_url, live_url, position)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (name) DO UPDATE
		 SET description = $2, technologies = $3, github_url = $4, live_url = $5, position = $6`,
		p.Name, p.Description, p.Technologies, p.GithubURL, p.LiveURL, position,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert portfolio project %s: %w", p.Name, err)
	}
	return nil
}
