package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/rvasilyev/storefront/internal/domain/errors"
	"github.com/rvasilyev/storefront/internal/domain/model"
	"github.com/rvasilyev/storefront/internal/domain/repository"
)

// pgxPool is the subset of pgxpool.Pool the storage relies on. Tests swap it
// for a pgxmock pool.
type pgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

var newPgxPool = func(ctx context.Context, cfg *pgxpool.Config) (pgxPool, error) {
	return pgxpool.NewWithConfig(ctx, cfg)
}

// Storage acts as repository facade backed by PostgreSQL.
type Storage struct {
	pool   pgxPool
	logger *slog.Logger
}

type userRepository struct {
	storage *Storage
}

type productRepository struct {
	storage *Storage
}

type orderRepository struct {
	storage *Storage
}

type checkoutRepository struct {
	storage *Storage
}

// New creates storage with schema initialization.
func New(ctx context.Context, dsn string, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pool, err := newPgxPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := &Storage{pool: pool, logger: logger}
	if err := storage.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return storage, nil
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Factory methods for domain repositories.
func (s *Storage) Users() repository.UserRepository {
	return &userRepository{storage: s}
}

func (s *Storage) Products() repository.ProductRepository {
	return &productRepository{storage: s}
}

func (s *Storage) Orders() repository.OrderRepository {
	return &orderRepository{storage: s}
}

func (s *Storage) Checkouts() repository.CheckoutRepository {
	return &checkoutRepository{storage: s}
}

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
            id SERIAL PRIMARY KEY,
            login TEXT UNIQUE NOT NULL,
            password_hash TEXT NOT NULL,
            role TEXT NOT NULL DEFAULT 'CLIENT',
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS products (
            id SERIAL PRIMARY KEY,
            name TEXT NOT NULL,
            description TEXT NOT NULL DEFAULT '',
            image_url TEXT NOT NULL DEFAULT '',
            price BIGINT NOT NULL CHECK (price >= 0),
            stock INTEGER NOT NULL DEFAULT 0 CHECK (stock >= 0),
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS orders (
            id SERIAL PRIMARY KEY,
            user_id BIGINT NOT NULL REFERENCES users(id),
            total BIGINT NOT NULL CHECK (total >= 0),
            status TEXT NOT NULL,
            address TEXT NOT NULL DEFAULT '',
            cancelled_at TIMESTAMPTZ,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS order_items (
            order_id BIGINT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
            product_id BIGINT NOT NULL REFERENCES products(id),
            product_name TEXT NOT NULL,
            quantity INTEGER NOT NULL CHECK (quantity > 0),
            price BIGINT NOT NULL CHECK (price >= 0),
            PRIMARY KEY (order_id, product_id)
        )`,
		`CREATE TABLE IF NOT EXISTS checkout_sessions (
            id TEXT PRIMARY KEY,
            user_id BIGINT NOT NULL REFERENCES users(id),
            provider_session TEXT NOT NULL DEFAULT '',
            snapshot JSONB NOT NULL,
            metadata JSONB,
            status TEXT NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            expires_at TIMESTAMPTZ NOT NULL
        )`,
		`CREATE INDEX IF NOT EXISTS idx_orders_user ON orders(user_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_checkout_pending ON checkout_sessions(status, expires_at)`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

// --- UserRepository implementation ---

func (r *userRepository) Create(ctx context.Context, login, passwordHash string, role model.Role) (*model.User, error) {
	const query = `INSERT INTO users (login, password_hash, role) VALUES ($1, $2, $3) RETURNING id, created_at`
	var u model.User
	err := r.storage.pool.QueryRow(ctx, query, login, passwordHash, string(role)).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domainErrors.ErrAlreadyExists
		}
		return nil, err
	}
	u.Login = login
	u.PasswordHash = passwordHash
	u.Role = role
	return &u, nil
}

func (r *userRepository) GetByLogin(ctx context.Context, login string) (*model.User, error) {
	const query = `SELECT id, login, password_hash, role, created_at FROM users WHERE login=$1`
	return r.scanUser(r.storage.pool.QueryRow(ctx, query, login))
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	const query = `SELECT id, login, password_hash, role, created_at FROM users WHERE id=$1`
	return r.scanUser(r.storage.pool.QueryRow(ctx, query, id))
}

func (r *userRepository) scanUser(row pgx.Row) (*model.User, error) {
	var u model.User
	var role string
	err := row.Scan(&u.ID, &u.Login, &u.PasswordHash, &role, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	u.Role = model.ParseRole(role)
	return &u, nil
}

// --- ProductRepository implementation ---

func (r *productRepository) Create(ctx context.Context, p *model.Product) (*model.Product, error) {
	const query = `INSERT INTO products (name, description, image_url, price, stock)
                   VALUES ($1, $2, $3, $4, $5)
                   RETURNING id, created_at, updated_at`
	created := *p
	err := r.storage.pool.QueryRow(ctx, query, p.Name, p.Description, p.ImageURL, p.Price, p.Stock).
		Scan(&created.ID, &created.CreatedAt, &created.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *productRepository) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	const query = `SELECT id, name, description, image_url, price, stock, created_at, updated_at
                   FROM products WHERE id=$1`
	var p model.Product
	err := r.storage.pool.QueryRow(ctx, query, id).
		Scan(&p.ID, &p.Name, &p.Description, &p.ImageURL, &p.Price, &p.Stock, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *productRepository) GetByIDs(ctx context.Context, ids []int64) ([]model.Product, error) {
	const query = `SELECT id, name, description, image_url, price, stock, created_at, updated_at
                   FROM products WHERE id = ANY($1) ORDER BY id`
	rows, err := r.storage.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProducts(rows)
}

func (r *productRepository) List(ctx context.Context) ([]model.Product, error) {
	const query = `SELECT id, name, description, image_url, price, stock, created_at, updated_at
                   FROM products ORDER BY id`
	rows, err := r.storage.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProducts(rows)
}

func scanProducts(rows pgx.Rows) ([]model.Product, error) {
	var result []model.Product
	for rows.Next() {
		var p model.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.ImageURL, &p.Price, &p.Stock, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *productRepository) UpdatePrice(ctx context.Context, id int64, price int64) error {
	const query = `UPDATE products SET price=$1, updated_at=NOW() WHERE id=$2`
	tag, err := r.storage.pool.Exec(ctx, query, price, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *productRepository) AdjustStock(ctx context.Context, id int64, delta int32) (*model.Product, error) {
	var updated *model.Product
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		const lockQuery = `SELECT id, name, description, image_url, price, stock, created_at, updated_at
                           FROM products WHERE id=$1 FOR UPDATE`
		var p model.Product
		err := tx.QueryRow(ctx, lockQuery, id).
			Scan(&p.ID, &p.Name, &p.Description, &p.ImageURL, &p.Price, &p.Stock, &p.CreatedAt, &p.UpdatedAt)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domainErrors.ErrNotFound
			}
			return err
		}

		if p.Stock+delta < 0 {
			return domainErrors.InsufficientStockError{Shortages: []domainErrors.StockShortage{
				{ProductID: id, Available: p.Stock, Requested: -delta},
			}}
		}

		const updateQuery = `UPDATE products SET stock = stock + $1, updated_at = NOW() WHERE id=$2`
		if _, err := tx.Exec(ctx, updateQuery, delta, id); err != nil {
			return err
		}

		p.Stock += delta
		updated = &p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// --- OrderRepository implementation ---

// lockedProduct carries the product fields read under FOR UPDATE.
type lockedProduct struct {
	name  string
	price int64
	stock int32
}

// createOrderTx runs the placement inside an open transaction: product rows
// are locked in id order, stock is validated, the order and its items are
// inserted, and stock counters are decremented. Any error aborts the caller's
// transaction, leaving no partial state.
func (s *Storage) createOrderTx(ctx context.Context, tx pgx.Tx, userID int64, address string, lines []model.OrderLine) (*model.Order, error) {
	ids := make([]int64, 0, len(lines))
	for _, line := range lines {
		ids = append(ids, line.ProductID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	const lockQuery = `SELECT id, name, price, stock FROM products WHERE id = ANY($1) ORDER BY id FOR UPDATE`
	rows, err := tx.Query(ctx, lockQuery, ids)
	if err != nil {
		return nil, err
	}

	locked := make(map[int64]lockedProduct, len(ids))
	for rows.Next() {
		var id int64
		var p lockedProduct
		if err := rows.Scan(&id, &p.name, &p.price, &p.stock); err != nil {
			rows.Close()
			return nil, err
		}
		locked[id] = p
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var missing []int64
	for _, id := range ids {
		if _, ok := locked[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return nil, domainErrors.UnknownProductsError{IDs: missing}
	}

	var shortages []domainErrors.StockShortage
	for _, line := range lines {
		p := locked[line.ProductID]
		if line.Quantity > p.stock {
			shortages = append(shortages, domainErrors.StockShortage{
				ProductID: line.ProductID,
				Available: p.stock,
				Requested: line.Quantity,
			})
		}
	}
	if len(shortages) > 0 {
		return nil, domainErrors.InsufficientStockError{Shortages: shortages}
	}

	order := &model.Order{UserID: userID, Status: model.OrderStatusPending, Address: address}
	for _, line := range lines {
		p := locked[line.ProductID]
		price := p.price
		if line.UnitPrice != nil {
			price = *line.UnitPrice
		}
		order.Items = append(order.Items, model.OrderItem{
			ProductID:   line.ProductID,
			ProductName: p.name,
			Quantity:    line.Quantity,
			Price:       price,
		})
		order.Total += price * int64(line.Quantity)
	}

	const insertOrder = `INSERT INTO orders (user_id, total, status, address)
                         VALUES ($1, $2, $3, $4)
                         RETURNING id, created_at, updated_at`
	if err := tx.QueryRow(ctx, insertOrder, userID, order.Total, string(order.Status), address).
		Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt); err != nil {
		return nil, err
	}

	const insertItem = `INSERT INTO order_items (order_id, product_id, product_name, quantity, price)
                        VALUES ($1, $2, $3, $4, $5)`
	const decrementStock = `UPDATE products SET stock = stock - $1, updated_at = NOW() WHERE id = $2`
	for i := range order.Items {
		item := &order.Items[i]
		item.OrderID = order.ID
		if _, err := tx.Exec(ctx, insertItem, order.ID, item.ProductID, item.ProductName, item.Quantity, item.Price); err != nil {
			return nil, err
		}
		if _, err := tx.Exec(ctx, decrementStock, item.Quantity, item.ProductID); err != nil {
			return nil, err
		}
	}

	return order, nil
}

func (r *orderRepository) Create(ctx context.Context, userID int64, address string, lines []model.OrderLine) (*model.Order, error) {
	var order *model.Order
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		created, err := r.storage.createOrderTx(ctx, tx, userID, address, lines)
		if err != nil {
			return err
		}
		order = created
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (r *orderRepository) GetByID(ctx context.Context, orderID int64) (*model.Order, error) {
	const query = `SELECT id, user_id, total, status, address, cancelled_at, created_at, updated_at
                   FROM orders WHERE id=$1`
	var o model.Order
	var status string
	err := r.storage.pool.QueryRow(ctx, query, orderID).
		Scan(&o.ID, &o.UserID, &o.Total, &status, &o.Address, &o.CancelledAt, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	o.Status = model.OrderStatus(status)

	items, err := r.itemsForOrders(ctx, []int64{o.ID})
	if err != nil {
		return nil, err
	}
	o.Items = items[o.ID]
	return &o, nil
}

func (r *orderRepository) ListByUser(ctx context.Context, userID int64) ([]model.Order, error) {
	const query = `SELECT id, user_id, total, status, address, cancelled_at, created_at, updated_at
                   FROM orders WHERE user_id=$1 ORDER BY created_at DESC`
	return r.listOrders(ctx, query, userID)
}

func (r *orderRepository) List(ctx context.Context) ([]model.Order, error) {
	const query = `SELECT id, user_id, total, status, address, cancelled_at, created_at, updated_at
                   FROM orders ORDER BY created_at DESC`
	return r.listOrders(ctx, query)
}

func (r *orderRepository) listOrders(ctx context.Context, query string, args ...any) ([]model.Order, error) {
	rows, err := r.storage.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Order
	var ids []int64
	for rows.Next() {
		var o model.Order
		var status string
		if err := rows.Scan(&o.ID, &o.UserID, &o.Total, &status, &o.Address, &o.CancelledAt, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, err
		}
		o.Status = model.OrderStatus(status)
		result = append(result, o)
		ids = append(ids, o.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(result) == 0 {
		return result, nil
	}

	items, err := r.itemsForOrders(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range result {
		result[i].Items = items[result[i].ID]
	}
	return result, nil
}

func (r *orderRepository) itemsForOrders(ctx context.Context, orderIDs []int64) (map[int64][]model.OrderItem, error) {
	const query = `SELECT order_id, product_id, product_name, quantity, price
                   FROM order_items WHERE order_id = ANY($1) ORDER BY order_id, product_id`
	rows, err := r.storage.pool.Query(ctx, query, orderIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[int64][]model.OrderItem)
	for rows.Next() {
		var item model.OrderItem
		if err := rows.Scan(&item.OrderID, &item.ProductID, &item.ProductName, &item.Quantity, &item.Price); err != nil {
			return nil, err
		}
		result[item.OrderID] = append(result[item.OrderID], item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *orderRepository) UpdateStatus(ctx context.Context, orderID int64, from, to model.OrderStatus) error {
	const query = `UPDATE orders SET status=$1, updated_at=NOW()
                   WHERE id=$2 AND status=$3 AND cancelled_at IS NULL`
	tag, err := r.storage.pool.Exec(ctx, query, string(to), orderID, string(from))
	if err != nil {
		return err
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	// The guarded update matched nothing: the order is gone, cancelled, or
	// was concurrently moved to another status.
	current, err := r.GetByID(ctx, orderID)
	if err != nil {
		return err
	}
	if current.Cancelled() {
		return domainErrors.ErrOrderCancelled
	}
	return domainErrors.IllegalTransitionError{From: string(current.Status), To: string(to)}
}

func (r *orderRepository) Cancel(ctx context.Context, orderID int64) error {
	return r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		const lockQuery = `SELECT status, cancelled_at FROM orders WHERE id=$1 FOR UPDATE`
		var status string
		var cancelledAt *time.Time
		err := tx.QueryRow(ctx, lockQuery, orderID).Scan(&status, &cancelledAt)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domainErrors.ErrNotFound
			}
			return err
		}
		if cancelledAt != nil {
			return domainErrors.ErrOrderCancelled
		}
		if !model.CanCancel(model.OrderStatus(status)) {
			return domainErrors.ErrCancelNotAllowed
		}

		const markCancelled = `UPDATE orders SET cancelled_at=NOW(), updated_at=NOW() WHERE id=$1`
		if _, err := tx.Exec(ctx, markCancelled, orderID); err != nil {
			return err
		}

		// Cancellation releases the reservation: the order never shipped,
		// so the decremented units go back on the shelf.
		const restoreStock = `UPDATE products SET stock = products.stock + oi.quantity, updated_at = NOW()
                              FROM order_items oi
                              WHERE oi.order_id=$1 AND oi.product_id = products.id`
		if _, err := tx.Exec(ctx, restoreStock, orderID); err != nil {
			return err
		}
		return nil
	})
}

func (r *orderRepository) UpdateAddress(ctx context.Context, orderID int64, address string) error {
	const query = `UPDATE orders SET address=$1, updated_at=NOW()
                   WHERE id=$2 AND status=$3 AND cancelled_at IS NULL`
	tag, err := r.storage.pool.Exec(ctx, query, address, orderID, string(model.OrderStatusPending))
	if err != nil {
		return err
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	current, err := r.GetByID(ctx, orderID)
	if err != nil {
		return err
	}
	if current.Cancelled() {
		return domainErrors.ErrOrderCancelled
	}
	return domainErrors.ErrOrderNotPending
}

// --- CheckoutRepository implementation ---

func (r *checkoutRepository) Create(ctx context.Context, session *model.CheckoutSession) error {
	snapshot, err := json.Marshal(session.Snapshot)
	if err != nil {
		return err
	}
	var metadata []byte
	if session.Metadata != nil {
		if metadata, err = json.Marshal(session.Metadata); err != nil {
			return err
		}
	}

	const query = `INSERT INTO checkout_sessions (id, user_id, provider_session, snapshot, metadata, status, expires_at)
                   VALUES ($1, $2, $3, $4, $5, $6, $7)
                   RETURNING created_at`
	err = r.storage.pool.QueryRow(ctx, query,
		session.ID, session.UserID, session.ProviderSession, snapshot, metadata,
		string(session.Status), session.ExpiresAt,
	).Scan(&session.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domainErrors.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *checkoutRepository) GetPending(ctx context.Context, id string) (*model.CheckoutSession, error) {
	const query = `SELECT id, user_id, provider_session, snapshot, metadata, status, created_at, expires_at
                   FROM checkout_sessions
                   WHERE id=$1 AND status=$2 AND expires_at > NOW()`
	row := r.storage.pool.QueryRow(ctx, query, id, string(model.CheckoutStatusPending))

	var session model.CheckoutSession
	var status string
	var snapshot, metadata []byte
	err := row.Scan(&session.ID, &session.UserID, &session.ProviderSession, &snapshot, &metadata,
		&status, &session.CreatedAt, &session.ExpiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	session.Status = model.CheckoutStatus(status)
	if err := json.Unmarshal(snapshot, &session.Snapshot); err != nil {
		return nil, err
	}
	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &session.Metadata); err != nil {
			return nil, err
		}
	}
	return &session, nil
}

func (r *checkoutRepository) SetProviderSession(ctx context.Context, id, providerSession string) error {
	const query = `UPDATE checkout_sessions SET provider_session=$1 WHERE id=$2 AND status=$3`
	tag, err := r.storage.pool.Exec(ctx, query, providerSession, id, string(model.CheckoutStatusPending))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *checkoutRepository) Complete(ctx context.Context, id string) (*model.Order, error) {
	var order *model.Order
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		const lockQuery = `SELECT user_id, snapshot, status, expires_at
                           FROM checkout_sessions WHERE id=$1 FOR UPDATE`
		var userID int64
		var snapshot []byte
		var status string
		var expiresAt time.Time
		err := tx.QueryRow(ctx, lockQuery, id).Scan(&userID, &snapshot, &status, &expiresAt)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domainErrors.ErrNotFound
			}
			return err
		}
		if model.CheckoutStatus(status) != model.CheckoutStatusPending || !expiresAt.After(time.Now()) {
			return domainErrors.ErrNotFound
		}

		var cart model.CartSnapshot
		if err := json.Unmarshal(snapshot, &cart); err != nil {
			return err
		}

		// The order derives from the frozen snapshot: snapshot prices become
		// price-at-purchase, stock is re-checked under the same row locks as
		// a direct placement.
		lines := make([]model.OrderLine, 0, len(cart.Items))
		for _, item := range cart.Items {
			price := item.Price
			lines = append(lines, model.OrderLine{ProductID: item.ProductID, Quantity: item.Quantity, UnitPrice: &price})
		}

		created, err := r.storage.createOrderTx(ctx, tx, userID, "", lines)
		if err != nil {
			return err
		}

		const complete = `UPDATE checkout_sessions SET status=$1 WHERE id=$2`
		if _, err := tx.Exec(ctx, complete, string(model.CheckoutStatusCompleted), id); err != nil {
			return err
		}

		order = created
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (r *checkoutRepository) ExpireOverdue(ctx context.Context, now time.Time, limit int) ([]string, error) {
	const selectQuery = `SELECT id FROM checkout_sessions
                         WHERE status=$1 AND expires_at <= $2
                         ORDER BY expires_at
                         LIMIT $3
                         FOR UPDATE SKIP LOCKED`

	var expired []string
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, selectQuery, string(model.CheckoutStatusPending), now, limit)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var id string
			if err := rows.Scan(&id); err != nil {
				return err
			}
			expired = append(expired, id)
		}
		if err := rows.Err(); err != nil {
			return err
		}

		for _, id := range expired {
			if _, err := tx.Exec(ctx, `UPDATE checkout_sessions SET status=$1 WHERE id=$2`, string(model.CheckoutStatusExpired), id); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return expired, nil
}

// WithinTransaction executes function inside transaction boundary.
func (s *Storage) WithinTransaction(ctx context.Context, fn func(pgx.Tx) error) (err error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	err = fn(tx)
	return err
}

// HealthCheck verifies database connectivity.
func (s *Storage) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}

// Logger returns storage logger.
func (s *Storage) Logger() *slog.Logger {
	return s.logger
}
