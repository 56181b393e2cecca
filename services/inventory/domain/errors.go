package domain

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Sentinel errors for the inventory domain. Use errors.Is() to check these.
// Every failure returned by a business operation matches exactly one of them.
var (
	// ErrNotFound indicates a stock item, recipe or batch is absent or soft-deleted.
	ErrNotFound = errors.New("not found")

	// ErrInvalidAdjustment indicates an adjustment would drive a quantity negative.
	ErrInvalidAdjustment = errors.New("invalid adjustment")

	// ErrInsufficientStock indicates a bill of materials or sale needs more than is available.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrInvalidRecipe indicates a recipe has no usable bill-of-materials lines.
	ErrInvalidRecipe = errors.New("invalid recipe")

	// ErrInvalidQuantity indicates a non-positive production or sale quantity, or
	// a quantity finer than the ledger stores.
	ErrInvalidQuantity = errors.New("invalid quantity")

	// ErrInvalidStockItem indicates intake attributes that cannot form a stock item.
	ErrInvalidStockItem = errors.New("invalid stock item")

	// ErrLockTimeout indicates a row lock could not be acquired within the configured bound.
	ErrLockTimeout = errors.New("lock timeout")

	// ErrStorageFailure indicates the transactional store could not complete or commit.
	ErrStorageFailure = errors.New("storage failure")
)

// Resource names used in errors, audit entries and events.
const (
	ResourceStockItem = "stock_item"
	ResourceRecipe    = "recipe"
	ResourceBatch     = "production_batch"
	ResourceSale      = "sale"
)

// NotFoundError names the missing resource.
type NotFoundError struct {
	Resource string
	ID       uuid.UUID
}

func NewNotFoundError(resource string, id uuid.UUID) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// InsufficientStockError reports the first resource whose available quantity
// could not cover what an operation needed.
type InsufficientStockError struct {
	Resource  string
	ID        uuid.UUID
	Name      string
	Unit      string
	Needed    decimal.Decimal
	Available decimal.Decimal
}

// Error renders a message a user can act on, e.g.
// "insufficient Cocoa Butter: need 350kg, have 200kg".
func (e *InsufficientStockError) Error() string {
	name := e.Name
	if name == "" {
		name = fmt.Sprintf("%s %s", e.Resource, e.ID)
	}
	return fmt.Sprintf("insufficient %s: need %s%s, have %s%s",
		name, e.Needed.String(), e.Unit, e.Available.String(), e.Unit)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// InvalidAdjustmentError reports an adjustment that would leave a negative quantity.
type InvalidAdjustmentError struct {
	ItemID  uuid.UUID
	Name    string
	Unit    string
	Current decimal.Decimal
	Delta   decimal.Decimal
}

func (e *InvalidAdjustmentError) Error() string {
	return fmt.Sprintf("cannot adjust %s by %s%s: only %s%s in stock",
		e.Name, e.Delta.String(), e.Unit, e.Current.String(), e.Unit)
}

func (e *InvalidAdjustmentError) Unwrap() error { return ErrInvalidAdjustment }

// InvalidRecipeError explains why a recipe cannot drive batch creation.
type InvalidRecipeError struct {
	RecipeID uuid.UUID
	Reason   string
}

func (e *InvalidRecipeError) Error() string {
	return fmt.Sprintf("recipe %s: %s", e.RecipeID, e.Reason)
}

func (e *InvalidRecipeError) Unwrap() error { return ErrInvalidRecipe }

// kinds lists the sentinels in the order Kind checks them.
var kinds = []struct {
	err  error
	name string
}{
	{ErrNotFound, "not_found"},
	{ErrInvalidAdjustment, "invalid_adjustment"},
	{ErrInsufficientStock, "insufficient_stock"},
	{ErrInvalidRecipe, "invalid_recipe"},
	{ErrInvalidQuantity, "invalid_quantity"},
	{ErrInvalidStockItem, "invalid_stock_item"},
	{ErrLockTimeout, "lock_timeout"},
	{ErrStorageFailure, "storage_failure"},
}

// Kind returns the snake_case name of the error kind err belongs to, "" for
// nil and "unknown" for errors outside the domain.
func Kind(err error) string {
	if err == nil {
		return ""
	}
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.name
		}
	}
	return "unknown"
}

// IsKind reports whether err already belongs to one of the domain error kinds.
func IsKind(err error) bool {
	k := Kind(err)
	return k != "" && k != "unknown"
}

// ResourceID extracts the identifying resource id from a typed domain error.
func ResourceID(err error) (uuid.UUID, bool) {
	var nf *NotFoundError
	if errors.As(err, &nf) {
		return nf.ID, true
	}
	var is *InsufficientStockError
	if errors.As(err, &is) {
		return is.ID, true
	}
	var ia *InvalidAdjustmentError
	if errors.As(err, &ia) {
		return ia.ItemID, true
	}
	var ir *InvalidRecipeError
	if errors.As(err, &ir) {
		return ir.RecipeID, true
	}
	return uuid.Nil, false
}
