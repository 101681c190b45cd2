package psql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/duynhne/customer-service/internal/core/domain"
)

const customerColumns = `id, first_name, last_name, COALESCE(address, ''), phone_number, email`

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike escapes LIKE metacharacters so the fragment matches
// literally. Patterns built from it must carry ESCAPE '\'.
func escapeLike(fragment string) string {
	return likeEscaper.Replace(fragment)
}

// CustomerRepository implements domain.CustomerRepository using PostgreSQL.
type CustomerRepository struct {
	pool *pgxpool.Pool
}

// NewCustomerRepository creates a new PostgreSQL customer repository.
func NewCustomerRepository(pool *pgxpool.Pool) *CustomerRepository {
	return &CustomerRepository{pool: pool}
}

func scanCustomer(row pgx.Row) (*domain.Customer, error) {
	var c domain.Customer
	err := row.Scan(&c.ID, &c.FirstName, &c.LastName, &c.Address, &c.PhoneNumber, &c.Email)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CustomerRepository) collect(ctx context.Context, query string, args ...any) ([]domain.Customer, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query customers: %w", err)
	}
	defer rows.Close()

	customers := []domain.Customer{}
	for rows.Next() {
		var c domain.Customer
		if err := rows.Scan(&c.ID, &c.FirstName, &c.LastName, &c.Address, &c.PhoneNumber, &c.Email); err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate customers: %w", err)
	}
	return customers, nil
}

// Create inserts a customer and returns it with the assigned identifier.
func (r *CustomerRepository) Create(ctx context.Context, c *domain.Customer) (*domain.Customer, error) {
	query := `INSERT INTO customers (first_name, last_name, address, phone_number, email)
		VALUES ($1, $2, $3, $4, $5) RETURNING id`

	err := r.pool.QueryRow(ctx, query, c.FirstName, c.LastName, c.Address, c.PhoneNumber, c.Email).Scan(&c.ID)
	if err != nil {
		return nil, fmt.Errorf("insert customer: %w", err)
	}
	return c, nil
}

// GetByID retrieves a customer by identifier.
func (r *CustomerRepository) GetByID(ctx context.Context, id int64) (*domain.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1`

	c, err := scanCustomer(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCustomerNotFound
		}
		return nil, fmt.Errorf("query customer by id: %w", err)
	}
	return c, nil
}

// GetAll returns every customer in store order.
func (r *CustomerRepository) GetAll(ctx context.Context) ([]domain.Customer, error) {
	return r.collect(ctx, `SELECT `+customerColumns+` FROM customers`)
}

// GetByPhoneNumber retrieves the customer owning the exact phone number.
func (r *CustomerRepository) GetByPhoneNumber(ctx context.Context, phone string) (*domain.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE phone_number = $1`

	c, err := scanCustomer(r.pool.QueryRow(ctx, query, phone))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCustomerNotFound
		}
		return nil, fmt.Errorf("query customer by phone: %w", err)
	}
	return c, nil
}

// GetByEmail retrieves the customer owning the exact email.
func (r *CustomerRepository) GetByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE email = $1`

	c, err := scanCustomer(r.pool.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCustomerNotFound
		}
		return nil, fmt.Errorf("query customer by email: %w", err)
	}
	return c, nil
}

// SearchByFirstName returns customers whose first name contains the
// fragment, case-insensitive.
func (r *CustomerRepository) SearchByFirstName(ctx context.Context, fragment string) ([]domain.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE first_name ILIKE '%' || $1 || '%' ESCAPE '\'`
	return r.collect(ctx, query, escapeLike(fragment))
}

// SearchByLastName returns customers whose last name contains the
// fragment, case-insensitive.
func (r *CustomerRepository) SearchByLastName(ctx context.Context, fragment string) ([]domain.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE last_name ILIKE '%' || $1 || '%' ESCAPE '\'`
	return r.collect(ctx, query, escapeLike(fragment))
}

// SearchByFullName returns customers matching both fragments (AND).
func (r *CustomerRepository) SearchByFullName(ctx context.Context, firstFragment, lastFragment string) ([]domain.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers
		WHERE first_name ILIKE '%' || $1 || '%' ESCAPE '\' AND last_name ILIKE '%' || $2 || '%' ESCAPE '\'`
	return r.collect(ctx, query, escapeLike(firstFragment), escapeLike(lastFragment))
}

// SearchByAddress returns customers whose address contains the
// fragment, case-insensitive. Substring on purpose, same as the name
// searches.
func (r *CustomerRepository) SearchByAddress(ctx context.Context, fragment string) ([]domain.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE address ILIKE '%' || $1 || '%' ESCAPE '\'`
	return r.collect(ctx, query, escapeLike(fragment))
}

// Update replaces all mutable fields of the customer in place.
func (r *CustomerRepository) Update(ctx context.Context, c *domain.Customer) error {
	query := `UPDATE customers
		SET first_name = $1, last_name = $2, address = $3, phone_number = $4, email = $5
		WHERE id = $6`

	tag, err := r.pool.Exec(ctx, query, c.FirstName, c.LastName, c.Address, c.PhoneNumber, c.Email, c.ID)
	if err != nil {
		return fmt.Errorf("update customer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCustomerNotFound
	}
	return nil
}

// Delete removes a customer by identifier.
func (r *CustomerRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete customer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCustomerNotFound
	}
	return nil
}
