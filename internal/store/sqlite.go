package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"github.com/vyrodovalexey/shopapi/internal/model"
)

// schema declares the five entity tables plus the pure join table for
// the item/category many-to-many association. Only the join table and
// order_items carry foreign keys into other tables; order line cascade
// is handled explicitly by the service layer.
const schema = `
CREATE TABLE IF NOT EXISTS customers (
	id      INTEGER PRIMARY KEY AUTOINCREMENT,
	name    TEXT NOT NULL,
	surname TEXT NOT NULL,
	email   TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS categories (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	title       TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS shop_items (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	title       TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	price       REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS shop_item_categories (
	shop_item_id INTEGER NOT NULL REFERENCES shop_items(id),
	category_id  INTEGER NOT NULL REFERENCES categories(id),
	PRIMARY KEY (shop_item_id, category_id)
);

CREATE TABLE IF NOT EXISTS orders (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	customer_id INTEGER NOT NULL REFERENCES customers(id)
);

CREATE TABLE IF NOT EXISTS order_items (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	order_id     INTEGER NOT NULL REFERENCES orders(id),
	shop_item_id INTEGER NOT NULL REFERENCES shop_items(id),
	quantity     INTEGER NOT NULL CHECK (quantity > 0)
);
`

// SQLiteStore implements Store on top of a SQLite database file.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (and if necessary creates) the database at path and
// applies the schema. Foreign keys are enabled per connection.
func OpenSQLite(path string) (*SQLiteStore, error) {
	dsn := fmt.Sprintf("%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// RunInTransaction runs fn inside one transaction, committing on nil
// and rolling back on error. Store-level constraint failures are
// translated to ErrConflict before they reach the caller.
func (s *SQLiteStore) RunInTransaction(ctx context.Context, fn func(tx Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(&sqliteTx{tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// Ping reports whether the database is reachable.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// sqliteTx implements Tx over a single *sql.Tx.
type sqliteTx struct {
	tx *sql.Tx
}

// wrapErr maps driver errors onto store sentinels.
func wrapErr(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	case strings.Contains(err.Error(), "constraint failed"):
		return fmt.Errorf("%s: %w: %v", op, ErrConflict, err)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

// requireRow converts a zero-rows-affected result into ErrNotFound.
func requireRow(op string, res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}

// Customers.

func (t *sqliteTx) GetCustomer(ctx context.Context, id int64) (*model.Customer, error) {
	var c model.Customer
	err := t.tx.QueryRowContext(ctx,
		`SELECT id, name, surname, email FROM customers WHERE id = ?`, id,
	).Scan(&c.ID, &c.Name, &c.Surname, &c.Email)
	if err != nil {
		return nil, wrapErr("get customer", err)
	}
	return &c, nil
}

func (t *sqliteTx) ListCustomers(ctx context.Context, offset, limit int) ([]model.Customer, error) {
	rows, err := t.tx.QueryContext(ctx,
		`SELECT id, name, surname, email FROM customers ORDER BY id LIMIT ? OFFSET ?`,
		limit, offset,
	)
	if err != nil {
		return nil, wrapErr("list customers", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	customers := make([]model.Customer, 0)
	for rows.Next() {
		var c model.Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.Surname, &c.Email); err != nil {
			return nil, wrapErr("scan customer", err)
		}
		customers = append(customers, c)
	}

	return customers, wrapErr("list customers", rows.Err())
}

func (t *sqliteTx) InsertCustomer(ctx context.Context, c *model.Customer) (int64, error) {
	if c == nil {
		return 0, ErrNilEntity
	}

	res, err := t.tx.ExecContext(ctx,
		`INSERT INTO customers (name, surname, email) VALUES (?, ?, ?)`,
		c.Name, c.Surname, c.Email,
	)
	if err != nil {
		return 0, wrapErr("insert customer", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, wrapErr("insert customer", err)
	}
	return id, nil
}

func (t *sqliteTx) UpdateCustomer(ctx context.Context, c *model.Customer) error {
	if c == nil {
		return ErrNilEntity
	}

	res, err := t.tx.ExecContext(ctx,
		`UPDATE customers SET name = ?, surname = ?, email = ? WHERE id = ?`,
		c.Name, c.Surname, c.Email, c.ID,
	)
	if err != nil {
		return wrapErr("update customer", err)
	}
	return requireRow("update customer", res)
}

func (t *sqliteTx) DeleteCustomer(ctx context.Context, id int64) error {
	res, err := t.tx.ExecContext(ctx, `DELETE FROM customers WHERE id = ?`, id)
	if err != nil {
		return wrapErr("delete customer", err)
	}
	return requireRow("delete customer", res)
}

// Categories.

func (t *sqliteTx) GetCategory(ctx context.Context, id int64) (*model.Category, error) {
	var c model.Category
	err := t.tx.QueryRowContext(ctx,
		`SELECT id, title, description FROM categories WHERE id = ?`, id,
	).Scan(&c.ID, &c.Title, &c.Description)
	if err != nil {
		return nil, wrapErr("get category", err)
	}
	return &c, nil
}

func (t *sqliteTx) ListCategories(ctx context.Context, offset, limit int) ([]model.Category, error) {
	rows, err := t.tx.QueryContext(ctx,
		`SELECT id, title, description FROM categories ORDER BY id LIMIT ? OFFSET ?`,
		limit, offset,
	)
	if err != nil {
		return nil, wrapErr("list categories", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	return scanCategories(rows)
}

// CategoriesByIDs resolves the given IDs with an IN-list; IDs with no
// matching row are simply not part of the result.
func (t *sqliteTx) CategoriesByIDs(ctx context.Context, ids []int64) ([]model.Category, error) {
	if len(ids) == 0 {
		return []model.Category{}, nil
	}

	placeholders := strings.Repeat("?,", len(ids))
	placeholders = placeholders[:len(placeholders)-1]
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := t.tx.QueryContext(ctx,
		fmt.Sprintf(`SELECT id, title, description FROM categories WHERE id IN (%s) ORDER BY id`, placeholders),
		args...,
	)
	if err != nil {
		return nil, wrapErr("categories by ids", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	return scanCategories(rows)
}

func scanCategories(rows *sql.Rows) ([]model.Category, error) {
	categories := make([]model.Category, 0)
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Title, &c.Description); err != nil {
			return nil, wrapErr("scan category", err)
		}
		categories = append(categories, c)
	}
	return categories, wrapErr("scan categories", rows.Err())
}

func (t *sqliteTx) InsertCategory(ctx context.Context, c *model.Category) (int64, error) {
	if c == nil {
		return 0, ErrNilEntity
	}

	res, err := t.tx.ExecContext(ctx,
		`INSERT INTO categories (title, description) VALUES (?, ?)`,
		c.Title, c.Description,
	)
	if err != nil {
		return 0, wrapErr("insert category", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, wrapErr("insert category", err)
	}
	return id, nil
}

func (t *sqliteTx) UpdateCategory(ctx context.Context, c *model.Category) error {
	if c == nil {
		return ErrNilEntity
	}

	res, err := t.tx.ExecContext(ctx,
		`UPDATE categories SET title = ?, description = ? WHERE id = ?`,
		c.Title, c.Description, c.ID,
	)
	if err != nil {
		return wrapErr("update category", err)
	}
	return requireRow("update category", res)
}

func (t *sqliteTx) DeleteCategory(ctx context.Context, id int64) error {
	// Association rows are pure links with no payload; drop them with
	// the category so the join table never holds dangling references.
	if _, err := t.tx.ExecContext(ctx,
		`DELETE FROM shop_item_categories WHERE category_id = ?`, id,
	); err != nil {
		return wrapErr("delete category links", err)
	}

	res, err := t.tx.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return wrapErr("delete category", err)
	}
	return requireRow("delete category", res)
}

// Shop items.

func (t *sqliteTx) GetShopItem(ctx context.Context, id int64) (*model.ShopItem, error) {
	var i model.ShopItem
	err := t.tx.QueryRowContext(ctx,
		`SELECT id, title, description, price FROM shop_items WHERE id = ?`, id,
	).Scan(&i.ID, &i.Title, &i.Description, &i.Price)
	if err != nil {
		return nil, wrapErr("get shop item", err)
	}
	return &i, nil
}

func (t *sqliteTx) ListShopItems(ctx context.Context, offset, limit int) ([]model.ShopItem, error) {
	rows, err := t.tx.QueryContext(ctx,
		`SELECT id, title, description, price FROM shop_items ORDER BY id LIMIT ? OFFSET ?`,
		limit, offset,
	)
	if err != nil {
		return nil, wrapErr("list shop items", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	items := make([]model.ShopItem, 0)
	for rows.Next() {
		var i model.ShopItem
		if err := rows.Scan(&i.ID, &i.Title, &i.Description, &i.Price); err != nil {
			return nil, wrapErr("scan shop item", err)
		}
		items = append(items, i)
	}

	return items, wrapErr("list shop items", rows.Err())
}

func (t *sqliteTx) InsertShopItem(ctx context.Context, i *model.ShopItem) (int64, error) {
	if i == nil {
		return 0, ErrNilEntity
	}

	res, err := t.tx.ExecContext(ctx,
		`INSERT INTO shop_items (title, description, price) VALUES (?, ?, ?)`,
		i.Title, i.Description, i.Price,
	)
	if err != nil {
		return 0, wrapErr("insert shop item", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, wrapErr("insert shop item", err)
	}
	return id, nil
}

func (t *sqliteTx) UpdateShopItem(ctx context.Context, i *model.ShopItem) error {
	if i == nil {
		return ErrNilEntity
	}

	res, err := t.tx.ExecContext(ctx,
		`UPDATE shop_items SET title = ?, description = ?, price = ? WHERE id = ?`,
		i.Title, i.Description, i.Price, i.ID,
	)
	if err != nil {
		return wrapErr("update shop item", err)
	}
	return requireRow("update shop item", res)
}

func (t *sqliteTx) DeleteShopItem(ctx context.Context, id int64) error {
	if _, err := t.tx.ExecContext(ctx,
		`DELETE FROM shop_item_categories WHERE shop_item_id = ?`, id,
	); err != nil {
		return wrapErr("delete shop item links", err)
	}

	res, err := t.tx.ExecContext(ctx, `DELETE FROM shop_items WHERE id = ?`, id)
	if err != nil {
		return wrapErr("delete shop item", err)
	}
	return requireRow("delete shop item", res)
}

// ItemCategories returns the item's category set in stable ID order.
func (t *sqliteTx) ItemCategories(ctx context.Context, itemID int64) ([]model.Category, error) {
	rows, err := t.tx.QueryContext(ctx,
		`SELECT c.id, c.title, c.description
		 FROM categories c
		 JOIN shop_item_categories sc ON sc.category_id = c.id
		 WHERE sc.shop_item_id = ?
		 ORDER BY c.id`,
		itemID,
	)
	if err != nil {
		return nil, wrapErr("item categories", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	return scanCategories(rows)
}

// ReplaceItemCategories swaps the item's whole category set. Duplicate
// IDs in the input collapse via the composite primary key.
func (t *sqliteTx) ReplaceItemCategories(ctx context.Context, itemID int64, categoryIDs []int64) error {
	if _, err := t.tx.ExecContext(ctx,
		`DELETE FROM shop_item_categories WHERE shop_item_id = ?`, itemID,
	); err != nil {
		return wrapErr("clear item categories", err)
	}

	for _, categoryID := range categoryIDs {
		if _, err := t.tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO shop_item_categories (shop_item_id, category_id) VALUES (?, ?)`,
			itemID, categoryID,
		); err != nil {
			return wrapErr("link item category", err)
		}
	}

	return nil
}

// Orders.

func (t *sqliteTx) GetOrder(ctx context.Context, id int64) (*model.Order, error) {
	var o model.Order
	err := t.tx.QueryRowContext(ctx,
		`SELECT id, customer_id FROM orders WHERE id = ?`, id,
	).Scan(&o.ID, &o.CustomerID)
	if err != nil {
		return nil, wrapErr("get order", err)
	}
	return &o, nil
}

func (t *sqliteTx) ListOrders(ctx context.Context, offset, limit int) ([]model.Order, error) {
	rows, err := t.tx.QueryContext(ctx,
		`SELECT id, customer_id FROM orders ORDER BY id LIMIT ? OFFSET ?`,
		limit, offset,
	)
	if err != nil {
		return nil, wrapErr("list orders", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	orders := make([]model.Order, 0)
	for rows.Next() {
		var o model.Order
		if err := rows.Scan(&o.ID, &o.CustomerID); err != nil {
			return nil, wrapErr("scan order", err)
		}
		orders = append(orders, o)
	}

	return orders, wrapErr("list orders", rows.Err())
}

func (t *sqliteTx) InsertOrder(ctx context.Context, o *model.Order) (int64, error) {
	if o == nil {
		return 0, ErrNilEntity
	}

	res, err := t.tx.ExecContext(ctx,
		`INSERT INTO orders (customer_id) VALUES (?)`, o.CustomerID,
	)
	if err != nil {
		return 0, wrapErr("insert order", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, wrapErr("insert order", err)
	}
	return id, nil
}

func (t *sqliteTx) UpdateOrder(ctx context.Context, o *model.Order) error {
	if o == nil {
		return ErrNilEntity
	}

	res, err := t.tx.ExecContext(ctx,
		`UPDATE orders SET customer_id = ? WHERE id = ?`, o.CustomerID, o.ID,
	)
	if err != nil {
		return wrapErr("update order", err)
	}
	return requireRow("update order", res)
}

func (t *sqliteTx) DeleteOrder(ctx context.Context, id int64) error {
	res, err := t.tx.ExecContext(ctx, `DELETE FROM orders WHERE id = ?`, id)
	if err != nil {
		return wrapErr("delete order", err)
	}
	return requireRow("delete order", res)
}

func (t *sqliteTx) InsertOrderLine(ctx context.Context, l *model.OrderLine) (int64, error) {
	if l == nil {
		return 0, ErrNilEntity
	}

	res, err := t.tx.ExecContext(ctx,
		`INSERT INTO order_items (order_id, shop_item_id, quantity) VALUES (?, ?, ?)`,
		l.OrderID, l.ShopItemID, l.Quantity,
	)
	if err != nil {
		return 0, wrapErr("insert order line", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, wrapErr("insert order line", err)
	}
	return id, nil
}

// OrderLines returns the order's lines in creation order.
func (t *sqliteTx) OrderLines(ctx context.Context, orderID int64) ([]model.OrderLine, error) {
	rows, err := t.tx.QueryContext(ctx,
		`SELECT id, order_id, shop_item_id, quantity FROM order_items WHERE order_id = ? ORDER BY id`,
		orderID,
	)
	if err != nil {
		return nil, wrapErr("order lines", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	lines := make([]model.OrderLine, 0)
	for rows.Next() {
		var l model.OrderLine
		if err := rows.Scan(&l.ID, &l.OrderID, &l.ShopItemID, &l.Quantity); err != nil {
			return nil, wrapErr("scan order line", err)
		}
		lines = append(lines, l)
	}

	return lines, wrapErr("order lines", rows.Err())
}

func (t *sqliteTx) DeleteOrderLines(ctx context.Context, orderID int64) error {
	_, err := t.tx.ExecContext(ctx, `DELETE FROM order_items WHERE order_id = ?`, orderID)
	return wrapErr("delete order lines", err)
}
