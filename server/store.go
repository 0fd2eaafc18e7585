package main

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

func (s *Store) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

var (
	ErrNotFound    = errors.New("not found")
	ErrBoardExists = errors.New("board name already taken")
	// ErrStale signals a lost compare-and-swap: the card changed
	// between read and save.
	ErrStale = errors.New("card changed concurrently")
)

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// CreateBoard inserts the board, its generated column layout and the
// seed cards (into the Initial column) in one transaction. A name
// collision, case-insensitive, aborts with ErrBoardExists.
func (s *Store) CreateBoard(ctx context.Context, name string, cols []Column, drafts []CardDraft) (Board, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Board{}, err
	}
	defer func() { _ = tx.Rollback() }()

	var b Board
	err = tx.QueryRowContext(ctx,
		`insert into boards(name) values($1) returning id, name, created_at, updated_at`, name).
		Scan(&b.ID, &b.Name, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return Board{}, ErrBoardExists
		}
		return Board{}, err
	}

	var initialID int64
	for _, c := range cols {
		var id int64
		err = tx.QueryRowContext(ctx,
			`insert into columns(board_id, name, role, pos, created_at, updated_at)
			 values($1,$2,$3,$4,$5,$6) returning id`,
			b.ID, c.Name, c.Role, c.Pos, c.CreatedAt, c.UpdatedAt).Scan(&id)
		if err != nil {
			return Board{}, err
		}
		if c.Role == RoleInitial {
			initialID = id
		}
	}

	for _, d := range drafts {
		if _, err = tx.ExecContext(ctx,
			`insert into cards(column_id, title, description) values($1,$2,$3)`,
			initialID, d.Title, d.Description); err != nil {
			return Board{}, err
		}
	}

	if err = tx.Commit(); err != nil {
		return Board{}, err
	}
	return b, nil
}

func (s *Store) ListBoards(ctx context.Context) ([]Board, error) {
	rows, err := s.db.QueryContext(ctx, `select id, name, created_at, updated_at from boards order by id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Board
	for rows.Next() {
		var b Board
		if err := rows.Scan(&b.ID, &b.Name, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (s *Store) GetBoard(ctx context.Context, id int64) (Board, error) {
	var b Board
	err := s.db.QueryRowContext(ctx, `select id, name, created_at, updated_at from boards where id=$1`, id).
		Scan(&b.ID, &b.Name, &b.CreatedAt, &b.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Board{}, ErrNotFound
	}
	return b, err
}

// BoardByRef resolves a board by numeric id or by name, case-insensitive.
func (s *Store) BoardByRef(ctx context.Context, id int64, name string) (Board, error) {
	var b Board
	err := s.db.QueryRowContext(ctx,
		`select id, name, created_at, updated_at from boards where id=$1 or lower(name)=lower($2)`,
		id, name).
		Scan(&b.ID, &b.Name, &b.CreatedAt, &b.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Board{}, ErrNotFound
	}
	return b, err
}

// DeleteBoard removes the board and, via cascade, its columns and
// cards. History rows are untouched.
func (s *Store) DeleteBoard(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `delete from boards where id=$1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) ColumnsByBoard(ctx context.Context, boardID int64) ([]Column, error) {
	rows, err := s.db.QueryContext(ctx,
		`select id, board_id, name, role, pos, created_at, updated_at from columns where board_id=$1 order by pos`, boardID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Column
	for rows.Next() {
		var c Column
		if err := rows.Scan(&c.ID, &c.BoardID, &c.Name, &c.Role, &c.Pos, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

const cardColumns = `id, column_id, title, description, blocked, block_reason, unblock_reason,
	last_blocked_at, last_unblocked_at, last_moved_at, created_at, updated_at, version`

func scanCard(row interface{ Scan(...any) error }) (Card, error) {
	var c Card
	err := row.Scan(&c.ID, &c.ColumnID, &c.Title, &c.Description, &c.Blocked, &c.BlockReason, &c.UnblockReason,
		&c.LastBlockedAt, &c.LastUnblockedAt, &c.LastMovedAt, &c.CreatedAt, &c.UpdatedAt, &c.Version)
	return c, err
}

func (s *Store) CardsByColumn(ctx context.Context, columnID int64) ([]Card, error) {
	rows, err := s.db.QueryContext(ctx,
		`select `+cardColumns+` from cards where column_id=$1 order by id`, columnID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Card
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) CardsByBoard(ctx context.Context, boardID int64) ([]Card, error) {
	rows, err := s.db.QueryContext(ctx,
		`select c.id, c.column_id, c.title, c.description, c.blocked, c.block_reason, c.unblock_reason,
			c.last_blocked_at, c.last_unblocked_at, c.last_moved_at, c.created_at, c.updated_at, c.version
		 from cards c join columns k on k.id=c.column_id where k.board_id=$1 order by k.pos, c.id`, boardID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Card
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// CardByID loads the card and the id of the board it lives on.
func (s *Store) CardByID(ctx context.Context, id int64) (Card, int64, error) {
	var boardID int64
	c, err := scanCardBoard(s.db.QueryRowContext(ctx,
		`select c.id, c.column_id, c.title, c.description, c.blocked, c.block_reason, c.unblock_reason,
			c.last_blocked_at, c.last_unblocked_at, c.last_moved_at, c.created_at, c.updated_at, c.version, k.board_id
		 from cards c join columns k on k.id=c.column_id where c.id=$1`, id), &boardID)
	if errors.Is(err, sql.ErrNoRows) {
		return Card{}, 0, ErrNotFound
	}
	return c, boardID, err
}

func scanCardBoard(row interface{ Scan(...any) error }, boardID *int64) (Card, error) {
	var c Card
	err := row.Scan(&c.ID, &c.ColumnID, &c.Title, &c.Description, &c.Blocked, &c.BlockReason, &c.UnblockReason,
		&c.LastBlockedAt, &c.LastUnblockedAt, &c.LastMovedAt, &c.CreatedAt, &c.UpdatedAt, &c.Version, boardID)
	return c, err
}

func (s *Store) CreateCard(ctx context.Context, columnID int64, title, description string) (Card, error) {
	row := s.db.QueryRowContext(ctx,
		`insert into cards(column_id, title, description) values($1,$2,$3) returning `+cardColumns,
		columnID, title, description)
	return scanCard(row)
}

// SaveCardState persists a lifecycle mutation: a compare-and-swap
// update on the live row plus one appended history snapshot, in a
// single transaction. The caller's version must match the stored one
// or the save fails with ErrStale and nothing changes.
func (s *Store) SaveCardState(ctx context.Context, boardID int64, c Card, role ColumnRole, takenAt time.Time) (Card, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Card{}, err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		`update cards set column_id=$1, blocked=$2, block_reason=$3, unblock_reason=$4,
			last_blocked_at=$5, last_unblocked_at=$6, last_moved_at=$7, updated_at=$8, version=version+1
		 where id=$9 and version=$10`,
		c.ColumnID, c.Blocked, c.BlockReason, c.UnblockReason,
		c.LastBlockedAt, c.LastUnblockedAt, c.LastMovedAt, c.UpdatedAt, c.ID, c.Version)
	if err != nil {
		return Card{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var exists bool
		if err := tx.QueryRowContext(ctx, `select exists(select 1 from cards where id=$1)`, c.ID).Scan(&exists); err != nil {
			return Card{}, err
		}
		if !exists {
			return Card{}, ErrNotFound
		}
		return Card{}, ErrStale
	}

	var seq int64 = 1
	_ = tx.QueryRowContext(ctx, `select coalesce(max(seq),0)+1 from card_history where card_id=$1`, c.ID).Scan(&seq)
	if _, err = tx.ExecContext(ctx,
		`insert into card_history(card_id, seq, board_id, column_id, column_role, title, description,
			blocked, block_reason, unblock_reason, last_blocked_at, last_unblocked_at, last_moved_at,
			created_at, updated_at, taken_at)
		 values($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)`,
		c.ID, seq, boardID, c.ColumnID, role, c.Title, c.Description,
		c.Blocked, c.BlockReason, c.UnblockReason, c.LastBlockedAt, c.LastUnblockedAt, c.LastMovedAt,
		c.CreatedAt, c.UpdatedAt, takenAt); err != nil {
		return Card{}, err
	}

	if err = tx.Commit(); err != nil {
		return Card{}, err
	}
	c.Version++
	return c, nil
}

// HistoryByBoard returns every snapshot recorded for the board's
// cards, ordered by card id then sequence, the order the report
// engine expects.
func (s *Store) HistoryByBoard(ctx context.Context, boardID int64) ([]CardSnapshot, error) {
	rows, err := s.db.QueryContext(ctx,
		`select card_id, seq, board_id, column_id, column_role, title, description,
			blocked, block_reason, unblock_reason, last_blocked_at, last_unblocked_at, last_moved_at,
			created_at, updated_at, taken_at
		 from card_history where board_id=$1 order by card_id, seq`, boardID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []CardSnapshot
	for rows.Next() {
		var h CardSnapshot
		if err := rows.Scan(&h.CardID, &h.Seq, &h.BoardID, &h.ColumnID, &h.ColumnRole, &h.Title, &h.Description,
			&h.Blocked, &h.BlockReason, &h.UnblockReason, &h.LastBlockedAt, &h.LastUnblockedAt, &h.LastMovedAt,
			&h.CreatedAt, &h.UpdatedAt, &h.TakenAt); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

const schema = `
create table if not exists boards(
    id bigserial primary key,
    name text not null check (length(name) > 0),
    created_at timestamptz not null default now(),
    updated_at timestamptz not null default now()
);
create unique index if not exists boards_name_ci_idx on boards(lower(name));

create table if not exists columns(
    id bigserial primary key,
    board_id bigint not null references boards(id) on delete cascade,
    name text not null,
    role text not null,
    pos int not null,
    created_at timestamptz not null default now(),
    updated_at timestamptz not null default now(),
    unique(board_id, pos)
);
create index if not exists columns_board_idx on columns(board_id);

create table if not exists cards(
    id bigserial primary key,
    column_id bigint not null references columns(id) on delete cascade,
    title text not null check (length(title) > 0),
    description text not null default '',
    blocked boolean not null default false,
    block_reason text,
    unblock_reason text,
    last_blocked_at timestamptz,
    last_unblocked_at timestamptz,
    last_moved_at timestamptz,
    created_at timestamptz not null default now(),
    updated_at timestamptz,
    version bigint not null default 0
);
create index if not exists cards_column_idx on cards(column_id);

-- append-only audit trail; no FK to cards so history survives
-- card/column/board deletion
create table if not exists card_history(
    id bigserial primary key,
    card_id bigint not null,
    seq bigint not null,
    board_id bigint not null,
    column_id bigint not null,
    column_role text not null,
    title text not null,
    description text not null default '',
    blocked boolean not null,
    block_reason text,
    unblock_reason text,
    last_blocked_at timestamptz,
    last_unblocked_at timestamptz,
    last_moved_at timestamptz,
    created_at timestamptz not null,
    updated_at timestamptz,
    taken_at timestamptz not null default now(),
    unique(card_id, seq)
);
create index if not exists card_history_board_idx on card_history(board_id);
`
