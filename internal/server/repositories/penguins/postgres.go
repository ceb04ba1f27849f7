package penguins

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/penguintracker/internal/common"
	"github.com/dmitrijs2005/penguintracker/internal/dbx"
	"github.com/dmitrijs2005/penguintracker/internal/server/models"
)

const penguinColumns = `id, name, species, island, beak_length_mm, beak_depth_mm, flipper_length_mm, body_mass_g, sex`

// sortColumns maps SortFields onto table columns.
var sortColumns = map[string]string{
	"id":              "id",
	"name":            "name",
	"species":         "species",
	"island":          "island",
	"beakLengthMm":    "beak_length_mm",
	"beakDepthMm":     "beak_depth_mm",
	"flipperLengthMm": "flipper_length_mm",
	"bodyMassG":       "body_mass_g",
	"sex":             "sex",
}

// PostgresRepository stores penguins in the penguins table. Ordering and
// filtering match MemoryRepository: missing values sort last and ties are
// broken by id.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPenguin(s scanner) (*models.Penguin, error) {
	p := &models.Penguin{}
	err := s.Scan(&p.ID, &p.Name, &p.Species, &p.Island,
		&p.BeakLengthMm, &p.BeakDepthMm, &p.FlipperLengthMm, &p.BodyMassG, &p.Sex)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// escapeLike quotes the LIKE wildcards of s.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func whereClause(p models.ListParams) (string, []any) {
	var (
		conds []string
		args  []any
	)

	switch g := strings.ToUpper(p.Gender); g {
	case "", "ALL":
	default:
		args = append(args, g)
		conds = append(conds, fmt.Sprintf("upper(sex) = $%d", len(args)))
	}

	if q := strings.TrimSpace(p.Search); q != "" {
		args = append(args, "%"+escapeLike(q)+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf("(species ILIKE $%d OR island ILIKE $%d OR name ILIKE $%d)", n, n, n))
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (r *PostgresRepository) List(ctx context.Context, p models.ListParams) ([]models.Penguin, int, error) {
	field := p.SortField
	if field == "" {
		field = "species"
	}
	col, ok := sortColumns[field]
	if !ok {
		return nil, 0, fmt.Errorf("%w: unknown sort field %q", common.ErrValidation, field)
	}
	dir := "ASC"
	if strings.EqualFold(p.SortDirection, "desc") {
		dir = "DESC"
	}

	where, args := whereClause(p)

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM penguins`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM penguins%s ORDER BY %s %s NULLS LAST, id ASC`, penguinColumns, where, col, dir)
	if p.PageSize >= 1 {
		page := max(p.Page, 1)
		args = append(args, p.PageSize, (page-1)*p.PageSize)
		query += fmt.Sprintf(` LIMIT $%d OFFSET $%d`, len(args)-1, len(args))
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	items := make([]models.Penguin, 0)
	for rows.Next() {
		row, err := scanPenguin(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("db error: %w", err)
		}
		items = append(items, *row)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}

	return items, total, nil
}

func (r *PostgresRepository) get(ctx context.Context, id int64, lock bool) (*models.Penguin, error) {
	query := `SELECT ` + penguinColumns + ` FROM penguins WHERE id = $1`
	if lock {
		query += ` FOR UPDATE`
	}

	p, err := scanPenguin(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id int64) (*models.Penguin, error) {
	return r.get(ctx, id, false)
}

func (r *PostgresRepository) Create(ctx context.Context, p models.Penguin) (*models.Penguin, error) {

	query :=
		`INSERT INTO penguins (name, species, island, beak_length_mm, beak_depth_mm, flipper_length_mm, body_mass_g, sex)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id
		 `

	err := r.db.QueryRowContext(ctx, query,
		p.Name, p.Species, p.Island, p.BeakLengthMm, p.BeakDepthMm, p.FlipperLengthMm, p.BodyMassG, p.Sex).Scan(&p.ID)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return &p, nil
}

// Update locks the row, applies fn and writes the result back. On a *sql.DB
// this runs in its own transaction; on a transaction it joins it.
func (r *PostgresRepository) Update(ctx context.Context, id int64, fn func(models.Penguin) (models.Penguin, error)) (*models.Penguin, error) {
	if b, ok := r.db.(dbx.TxBeginner); ok {
		var out *models.Penguin
		err := dbx.WithTx(ctx, b, nil, func(ctx context.Context, tx dbx.DBTX) error {
			var err error
			out, err = NewPostgresRepository(tx).Update(ctx, id, fn)
			return err
		})
		if err != nil {
			return nil, err
		}
		return out, nil
	}

	cur, err := r.get(ctx, id, true)
	if err != nil {
		return nil, err
	}

	updated, err := fn(*cur)
	if err != nil {
		return nil, err
	}
	updated.ID = id

	query :=
		`UPDATE penguins
		 SET name = $2, species = $3, island = $4, beak_length_mm = $5, beak_depth_mm = $6,
		     flipper_length_mm = $7, body_mass_g = $8, sex = $9
		 WHERE id = $1
		 `

	_, err = r.db.ExecContext(ctx, query, id,
		updated.Name, updated.Species, updated.Island, updated.BeakLengthMm, updated.BeakDepthMm,
		updated.FlipperLengthMm, updated.BodyMassG, updated.Sex)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return &updated, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM penguins WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
