// Package directory keeps recently used employees and the company list in
// a bounded in-process LRU in front of the database.  Every employee write
// goes through the directory so cached entries never outlive a change.
package directory

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/iliyamo/timeclock/internal/model"
	"github.com/iliyamo/timeclock/internal/repository"
)

// DefaultSize bounds the number of cached employees.
const DefaultSize = 512

// EmployeeSource is the persistent employee store.
type EmployeeSource interface {
	GetByCode(ctx context.Context, code string) (model.Employee, error)
	Create(ctx context.Context, e model.Employee) error
	UpdatePasswordHash(ctx context.Context, code, hash string) error
	List(ctx context.Context) ([]model.Employee, error)
	Codes(ctx context.Context) ([]string, error)
}

// CompanySource is the persistent company store.
type CompanySource interface {
	List(ctx context.Context) ([]model.Company, error)
}

const companiesKey = "companies"

// Directory caches employee and company reads.
type Directory struct {
	employees     EmployeeSource
	companies     CompanySource
	employeeCache *lru.Cache[string, model.Employee]
	companyCache  *lru.Cache[string, []model.Company]
}

// New wraps the sources with an LRU holding up to size employees.
func New(employees EmployeeSource, companies CompanySource, size int) (*Directory, error) {
	if size <= 0 {
		size = DefaultSize
	}
	ec, err := lru.New[string, model.Employee](size)
	if err != nil {
		return nil, err
	}
	cc, err := lru.New[string, []model.Company](1)
	if err != nil {
		return nil, err
	}
	return &Directory{employees: employees, companies: companies, employeeCache: ec, companyCache: cc}, nil
}

// Employee returns the employee with code.  Misses (repository.ErrNotFound)
// are not cached.
func (d *Directory) Employee(ctx context.Context, code string) (model.Employee, error) {
	if e, ok := d.employeeCache.Get(code); ok {
		return e, nil
	}
	e, err := d.employees.GetByCode(ctx, code)
	if err != nil {
		return model.Employee{}, err
	}
	d.employeeCache.Add(code, e)
	return e, nil
}

// CreateEmployee persists e and drops any stale cache entry for its code.
func (d *Directory) CreateEmployee(ctx context.Context, e model.Employee) error {
	defer d.employeeCache.Remove(e.Code)
	return d.employees.Create(ctx, e)
}

// UpdatePasswordHash persists the new hash and evicts the employee.
func (d *Directory) UpdatePasswordHash(ctx context.Context, code, hash string) error {
	defer d.employeeCache.Remove(code)
	return d.employees.UpdatePasswordHash(ctx, code, hash)
}

// Employees lists employees with the given role, all of them when role is
// empty.  Listings are not cached.
func (d *Directory) Employees(ctx context.Context, role string) ([]model.Employee, error) {
	all, err := d.employees.List(ctx)
	if err != nil {
		return nil, err
	}
	if role == "" {
		return all, nil
	}
	out := make([]model.Employee, 0, len(all))
	for _, e := range all {
		if e.Role == role {
			out = append(out, e)
		}
	}
	return out, nil
}

// ExistingCodes returns the set of codes already registered.
func (d *Directory) ExistingCodes(ctx context.Context) (map[string]bool, error) {
	codes, err := d.employees.Codes(ctx)
	if err != nil {
		return nil, err
	}
	set := make(map[string]bool, len(codes))
	for _, c := range codes {
		set[c] = true
	}
	return set, nil
}

// Companies returns the company list, loading it once.
func (d *Directory) Companies(ctx context.Context) ([]model.Company, error) {
	if cs, ok := d.companyCache.Get(companiesKey); ok {
		return cs, nil
	}
	cs, err := d.companies.List(ctx)
	if err != nil {
		return nil, err
	}
	d.companyCache.Add(companiesKey, cs)
	return cs, nil
}

// Company finds one company by ID in the cached list.
func (d *Directory) Company(ctx context.Context, id uint64) (model.Company, error) {
	cs, err := d.Companies(ctx)
	if err != nil {
		return model.Company{}, err
	}
	for _, c := range cs {
		if c.ID == id {
			return c, nil
		}
	}
	return model.Company{}, repository.ErrNotFound
}

// Invalidate empties both caches.
func (d *Directory) Invalidate() {
	d.employeeCache.Purge()
	d.companyCache.Purge()
}
