package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/cafe-backoffice/internal/domain"
	"github.com/jhoicas/cafe-backoffice/internal/domain/entity"
	"github.com/jhoicas/cafe-backoffice/internal/domain/inventory"
	"github.com/jhoicas/cafe-backoffice/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo persiste movimientos y sus líneas (movement_inflows / movement_outflows).
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

const movementColumns = `id, "user", value, type, date, commentary`

// Create inserta cabecera y líneas en un solo batch. La fecha la asigna la base (now()).
func (r *MovementRepo) Create(ctx context.Context, m *entity.Movement) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	err := r.q.QueryRow(ctx, `
		INSERT INTO movements (id, "user", value, type, commentary)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING date`,
		m.ID, m.User, m.Value, m.Type, m.Commentary,
	).Scan(&m.Date)
	if err != nil {
		return fmt.Errorf("insert movement: %w", err)
	}

	batch := &pgx.Batch{}
	for i := range m.Inflows {
		l := &m.Inflows[i]
		l.ID, l.MovementID = uuid.New().String(), m.ID
		batch.Queue(`INSERT INTO movement_inflows (id, movement_id, name, quantity, unit, price) VALUES ($1, $2, $3, $4, $5, $6)`,
			l.ID, l.MovementID, l.Name, l.Quantity, string(l.Unit), l.Price)
	}
	for i := range m.Outflows {
		l := &m.Outflows[i]
		l.ID, l.MovementID = uuid.New().String(), m.ID
		batch.Queue(`INSERT INTO movement_outflows (id, movement_id, name, quantity, price) VALUES ($1, $2, $3, $4, $5)`,
			l.ID, l.MovementID, l.Name, l.Quantity, l.Price)
	}
	if batch.Len() == 0 {
		return nil
	}
	br := r.q.SendBatch(ctx, batch)
	defer br.Close()
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("insert movement line: %w", err)
		}
	}
	return nil
}

// GetByID obtiene el movimiento con sus líneas.
func (r *MovementRepo) GetByID(ctx context.Context, id string) (*entity.Movement, error) {
	if !validID(id) {
		return nil, nil
	}
	var m entity.Movement
	err := r.q.QueryRow(ctx, `SELECT `+movementColumns+` FROM movements WHERE id = $1`, id).
		Scan(&m.ID, &m.User, &m.Value, &m.Type, &m.Date, &m.Commentary)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	if err := r.loadLines(ctx, []*entity.Movement{&m}); err != nil {
		return nil, err
	}
	return &m, nil
}

// List más recientes primero, sin líneas.
func (r *MovementRepo) List(ctx context.Context, limit, offset int) ([]*entity.Movement, error) {
	return r.query(ctx, `SELECT `+movementColumns+` FROM movements
		ORDER BY date DESC, id DESC LIMIT $1 OFFSET $2`, limit, offset)
}

// ListByPeriod movimientos con Start <= date <= End (más recientes primero) con sus líneas.
func (r *MovementRepo) ListByPeriod(ctx context.Context, p inventory.Period) ([]*entity.Movement, error) {
	list, err := r.query(ctx, `SELECT `+movementColumns+` FROM movements
		WHERE date BETWEEN $1 AND $2
		ORDER BY date DESC, id DESC`, p.Start, p.End)
	if err != nil {
		return nil, err
	}
	if err := r.loadLines(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

func (r *MovementRepo) query(ctx context.Context, sql string, args ...any) ([]*entity.Movement, error) {
	rows, err := r.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.Movement
	for rows.Next() {
		var m entity.Movement
		if err := rows.Scan(&m.ID, &m.User, &m.Value, &m.Type, &m.Date, &m.Commentary); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}

// loadLines completa entradas y salidas de los movimientos dados (dos consultas en total).
func (r *MovementRepo) loadLines(ctx context.Context, list []*entity.Movement) error {
	if len(list) == 0 {
		return nil
	}
	ids := make([]string, 0, len(list))
	byID := make(map[string]*entity.Movement, len(list))
	for _, m := range list {
		ids = append(ids, m.ID)
		byID[m.ID] = m
	}

	rows, err := r.q.Query(ctx, `
		SELECT id, movement_id, name, quantity, unit, price FROM movement_inflows
		WHERE movement_id = ANY($1::uuid[]) ORDER BY name`, ids)
	if err != nil {
		return fmt.Errorf("load inflows: %w", err)
	}
	for rows.Next() {
		var l entity.MovementInflowLine
		if err := rows.Scan(&l.ID, &l.MovementID, &l.Name, &l.Quantity, &l.Unit, &l.Price); err != nil {
			rows.Close()
			return fmt.Errorf("scan inflow: %w", err)
		}
		byID[l.MovementID].Inflows = append(byID[l.MovementID].Inflows, l)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	rows, err = r.q.Query(ctx, `
		SELECT id, movement_id, name, quantity, price FROM movement_outflows
		WHERE movement_id = ANY($1::uuid[]) ORDER BY name`, ids)
	if err != nil {
		return fmt.Errorf("load outflows: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var l entity.MovementOutflowLine
		if err := rows.Scan(&l.ID, &l.MovementID, &l.Name, &l.Quantity, &l.Price); err != nil {
			return fmt.Errorf("scan outflow: %w", err)
		}
		byID[l.MovementID].Outflows = append(byID[l.MovementID].Outflows, l)
	}
	return rows.Err()
}

// Count total de movimientos.
func (r *MovementRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM movements`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count movements: %w", err)
	}
	return n, nil
}

// Delete elimina el movimiento; las líneas caen en cascada. El stock no se toca.
func (r *MovementRepo) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return domain.ErrNotFound
	}
	cmd, err := r.q.Exec(ctx, `DELETE FROM movements WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete movement: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
