package directory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/timeclock/internal/model"
	"github.com/iliyamo/timeclock/internal/repository"
)

type fakeEmployees struct {
	rows  map[string]model.Employee
	gets  int
	lists int
}

func (f *fakeEmployees) GetByCode(_ context.Context, code string) (model.Employee, error) {
	f.gets++
	e, ok := f.rows[code]
	if !ok {
		return model.Employee{}, repository.ErrNotFound
	}
	return e, nil
}

func (f *fakeEmployees) Create(_ context.Context, e model.Employee) error {
	if _, ok := f.rows[e.Code]; ok {
		return repository.ErrDuplicate
	}
	f.rows[e.Code] = e
	return nil
}

func (f *fakeEmployees) UpdatePasswordHash(_ context.Context, code, hash string) error {
	e := f.rows[code]
	e.PasswordHash = hash
	f.rows[code] = e
	return nil
}

func (f *fakeEmployees) List(context.Context) ([]model.Employee, error) {
	f.lists++
	out := []model.Employee{}
	for _, e := range f.rows {
		out = append(out, e)
	}
	return out, nil
}

func (f *fakeEmployees) Codes(context.Context) ([]string, error) {
	out := []string{}
	for c := range f.rows {
		out = append(out, c)
	}
	return out, nil
}

type fakeCompanies struct{ calls int }

func (f *fakeCompanies) List(context.Context) ([]model.Company, error) {
	f.calls++
	return []model.Company{{ID: 1, Name: "Ômega Barroso"}, {ID: 2, Name: "Ômega Matriz"}}, nil
}

func newDirectory(t *testing.T) (*Directory, *fakeEmployees, *fakeCompanies) {
	t.Helper()
	emps := &fakeEmployees{rows: map[string]model.Employee{
		"admin": {Code: "admin", Name: "Administrador", Role: model.RoleAdmin},
		"1001":  {Code: "1001", Name: "Maria", Role: model.RoleEmployee, PasswordHash: "old"},
	}}
	comps := &fakeCompanies{}
	d, err := New(emps, comps, 8)
	require.NoError(t, err)
	return d, emps, comps
}

func TestEmployeeIsCached(t *testing.T) {
	d, emps, _ := newDirectory(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		e, err := d.Employee(ctx, "1001")
		require.NoError(t, err)
		assert.Equal(t, "Maria", e.Name)
	}
	assert.Equal(t, 1, emps.gets)

	_, err := d.Employee(ctx, "nobody")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, _ = d.Employee(ctx, "nobody")
	assert.Equal(t, 3, emps.gets, "misses are not cached")
}

func TestPasswordUpdateEvicts(t *testing.T) {
	d, emps, _ := newDirectory(t)
	ctx := context.Background()

	_, err := d.Employee(ctx, "1001")
	require.NoError(t, err)
	require.NoError(t, d.UpdatePasswordHash(ctx, "1001", "new"))

	e, err := d.Employee(ctx, "1001")
	require.NoError(t, err)
	assert.Equal(t, "new", e.PasswordHash)
	assert.Equal(t, 2, emps.gets)
}

func TestCreateEmployeeAndCodes(t *testing.T) {
	d, _, _ := newDirectory(t)
	ctx := context.Background()

	require.NoError(t, d.CreateEmployee(ctx, model.Employee{Code: "2002", Name: "João", Role: model.RoleEmployee}))
	assert.ErrorIs(t, d.CreateEmployee(ctx, model.Employee{Code: "2002"}), repository.ErrDuplicate)

	codes, err := d.ExistingCodes(ctx)
	require.NoError(t, err)
	assert.True(t, codes["2002"])
	assert.True(t, codes["admin"])

	staff, err := d.Employees(ctx, model.RoleEmployee)
	require.NoError(t, err)
	assert.Len(t, staff, 2)
}

func TestCompaniesLoadedOnce(t *testing.T) {
	d, _, comps := newDirectory(t)
	ctx := context.Background()

	cs, err := d.Companies(ctx)
	require.NoError(t, err)
	assert.Len(t, cs, 2)

	c, err := d.Company(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "Ômega Matriz", c.Name)
	assert.Equal(t, 1, comps.calls)

	_, err = d.Company(ctx, 99)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	d.Invalidate()
	_, _ = d.Companies(ctx)
	assert.Equal(t, 2, comps.calls)
}
