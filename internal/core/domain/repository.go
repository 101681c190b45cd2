package domain

import "context"

// CustomerRepository defines the data access surface for customers.
// Lookup methods return ErrCustomerNotFound when no row matches;
// search methods return an empty slice instead.
type CustomerRepository interface {
	Create(ctx context.Context, c *Customer) (*Customer, error)
	GetByID(ctx context.Context, id int64) (*Customer, error)
	GetAll(ctx context.Context) ([]Customer, error)
	GetByPhoneNumber(ctx context.Context, phone string) (*Customer, error)
	GetByEmail(ctx context.Context, email string) (*Customer, error)
	SearchByFirstName(ctx context.Context, fragment string) ([]Customer, error)
	SearchByLastName(ctx context.Context, fragment string) ([]Customer, error)
	SearchByFullName(ctx context.Context, firstFragment, lastFragment string) ([]Customer, error)
	SearchByAddress(ctx context.Context, fragment string) ([]Customer, error)
	Update(ctx context.Context, c *Customer) error
	Delete(ctx context.Context, id int64) error
}

// UserRepository defines the data access surface for credential records.
type UserRepository interface {
	GetByUsername(ctx context.Context, username string) (*User, error)
	Create(ctx context.Context, u *User) (*User, error)
	Count(ctx context.Context) (int64, error)
}
