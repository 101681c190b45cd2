package v1

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/duynhne/customer-service/internal/core/domain"
	"github.com/duynhne/customer-service/middleware"
)

// CustomerService implements the customer operations. Each operation
// maps to a single repository call; update is read-then-write without a
// wrapping transaction, so two concurrent updates to the same id can
// race (last write wins).
type CustomerService struct {
	customers domain.CustomerRepository
}

// NewCustomerService creates a new customer service.
func NewCustomerService(customers domain.CustomerRepository) *CustomerService {
	return &CustomerService{customers: customers}
}

// checkDuplicates rejects a phone/email pair already owned by another
// customer. excludeID skips the row being updated; pass 0 for creates.
// The store's unique indexes remain the backstop under concurrency.
func (s *CustomerService) checkDuplicates(ctx context.Context, phone, email string, excludeID int64) error {
	existing, err := s.customers.GetByPhoneNumber(ctx, phone)
	if err == nil && existing.ID != excludeID {
		return fmt.Errorf("phone %q: %w", phone, domain.ErrDuplicatePhone)
	} else if err != nil && !errors.Is(err, domain.ErrCustomerNotFound) {
		return fmt.Errorf("check phone %q: %w", phone, err)
	}

	existing, err = s.customers.GetByEmail(ctx, email)
	if err == nil && existing.ID != excludeID {
		return fmt.Errorf("email %q: %w", email, domain.ErrDuplicateEmail)
	} else if err != nil && !errors.Is(err, domain.ErrCustomerNotFound) {
		return fmt.Errorf("check email %q: %w", email, err)
	}

	return nil
}

// Create persists a new customer and returns it with the assigned id.
func (s *CustomerService) Create(ctx context.Context, p domain.CustomerPayload) (*domain.Customer, error) {
	ctx, span := middleware.StartSpan(ctx, "customer.create", trace.WithAttributes(
		attribute.String("layer", "logic"),
	))
	defer span.End()

	if err := s.checkDuplicates(ctx, p.PhoneNumber, p.Email, 0); err != nil {
		span.SetAttributes(attribute.Bool("customer.created", false))
		return nil, err
	}

	created, err := s.customers.Create(ctx, &domain.Customer{
		FirstName:   p.FirstName,
		LastName:    p.LastName,
		Address:     p.Address,
		PhoneNumber: p.PhoneNumber,
		Email:       p.Email,
	})
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("create customer: %w", err)
	}

	span.SetAttributes(
		attribute.Int64("customer.id", created.ID),
		attribute.Bool("customer.created", true),
	)
	return created, nil
}

// GetByID returns the customer or domain.ErrCustomerNotFound.
func (s *CustomerService) GetByID(ctx context.Context, id int64) (*domain.Customer, error) {
	ctx, span := middleware.StartSpan(ctx, "customer.get", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.Int64("customer.id", id),
	))
	defer span.End()

	return s.customers.GetByID(ctx, id)
}

// GetAll returns every customer in store order.
func (s *CustomerService) GetAll(ctx context.Context) ([]domain.Customer, error) {
	ctx, span := middleware.StartSpan(ctx, "customer.list", trace.WithAttributes(
		attribute.String("layer", "logic"),
	))
	defer span.End()

	return s.customers.GetAll(ctx)
}

// GetByPhoneNumber is an exact-match single lookup.
func (s *CustomerService) GetByPhoneNumber(ctx context.Context, phone string) (*domain.Customer, error) {
	return s.customers.GetByPhoneNumber(ctx, phone)
}

// GetByEmail is an exact-match single lookup.
func (s *CustomerService) GetByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	return s.customers.GetByEmail(ctx, email)
}

// SearchByFirstName is a case-insensitive substring search.
func (s *CustomerService) SearchByFirstName(ctx context.Context, fragment string) ([]domain.Customer, error) {
	return s.customers.SearchByFirstName(ctx, fragment)
}

// SearchByLastName is a case-insensitive substring search.
func (s *CustomerService) SearchByLastName(ctx context.Context, fragment string) ([]domain.Customer, error) {
	return s.customers.SearchByLastName(ctx, fragment)
}

// SearchByFullName matches both fragments, case-insensitive, AND.
func (s *CustomerService) SearchByFullName(ctx context.Context, firstFragment, lastFragment string) ([]domain.Customer, error) {
	return s.customers.SearchByFullName(ctx, firstFragment, lastFragment)
}

// SearchByAddress is a case-insensitive substring search, consistent
// with the name searches.
func (s *CustomerService) SearchByAddress(ctx context.Context, fragment string) ([]domain.Customer, error) {
	return s.customers.SearchByAddress(ctx, fragment)
}

// Update replaces all mutable fields of the customer identified by id.
func (s *CustomerService) Update(ctx context.Context, id int64, p domain.CustomerPayload) (*domain.Customer, error) {
	ctx, span := middleware.StartSpan(ctx, "customer.update", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.Int64("customer.id", id),
	))
	defer span.End()

	existing, err := s.customers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.checkDuplicates(ctx, p.PhoneNumber, p.Email, id); err != nil {
		return nil, err
	}

	existing.FirstName = p.FirstName
	existing.LastName = p.LastName
	existing.Address = p.Address
	existing.PhoneNumber = p.PhoneNumber
	existing.Email = p.Email

	if err := s.customers.Update(ctx, existing); err != nil {
		span.RecordError(err)
		return nil, err
	}

	span.SetAttributes(attribute.Bool("customer.updated", true))
	return existing, nil
}

// Delete removes the customer identified by id, check-then-404: a
// nonexistent id fails with ErrCustomerNotFound and does not touch the
// store.
func (s *CustomerService) Delete(ctx context.Context, id int64) error {
	ctx, span := middleware.StartSpan(ctx, "customer.delete", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.Int64("customer.id", id),
	))
	defer span.End()

	if _, err := s.customers.GetByID(ctx, id); err != nil {
		return err
	}
	return s.customers.Delete(ctx, id)
}
