package store

import (
	"testing"

	"venuecal/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlannerStoreCRUD(t *testing.T) {
	clock := int64(100)
	s := NewPlannerStore(func() int64 { return clock }, nil)

	id := s.Add("Iris", "Iris Events", "iris@example.com", "555-0100", "")
	p, ok := s.Get(id)
	require.True(t, ok)
	assert.Equal(t, "Iris Events", p.CompanyName)

	clock = 200
	email := "hello@irisevents.com"
	updated, err := s.Update(id, PlannerPatch{Email: &email})
	require.NoError(t, err)
	assert.Equal(t, email, updated.Email)
	assert.Equal(t, int64(200), updated.UpdatedAt)

	_, err = s.Update("missing", PlannerPatch{})
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Delete(id))
	assert.Equal(t, 0, s.Len())
}

func TestPlannerStoreAllNewestFirst(t *testing.T) {
	clock := int64(0)
	s := NewPlannerStore(func() int64 { clock++; return clock }, nil)
	s.Add("First", "", "", "", "")
	s.Add("Second", "", "", "", "")
	s.Add("Third", "", "", "", "")

	all := s.All()
	require.Len(t, all, 3)
	assert.Equal(t, "Third", all[0].Name)
	assert.Equal(t, "First", all[2].Name)
}

func TestVendorStoreCRUD(t *testing.T) {
	clock := int64(100)
	s := NewVendorStore(func() int64 { return clock }, nil)

	id := s.Add("Bloom & Co", "555-0111", "flowers@example.com", "", "@bloomco")
	v, ok := s.Get(id)
	require.True(t, ok)
	assert.Equal(t, "@bloomco", v.Instagram)

	phone := "555-0222"
	updated, err := s.Update(id, VendorPatch{Telephone: &phone})
	require.NoError(t, err)
	assert.Equal(t, phone, updated.Telephone)

	assert.ErrorIs(t, s.Delete("missing"), ErrNotFound)
	require.NoError(t, s.Delete(id))
}

func TestContactSnapshotsRoundTrip(t *testing.T) {
	ps := NewPlannerStore(fixedNow(5), nil)
	pid := ps.Add("Iris", "Iris Events", "", "", "")
	restoredP := NewPlannerStore(nil, nil)
	restoredP.Restore(ps.Snapshot())
	_, ok := restoredP.Get(pid)
	assert.True(t, ok)

	vs := NewVendorStore(fixedNow(6), nil)
	vid := vs.Add("Bloom", "", "", "", "")
	restoredV := NewVendorStore(nil, nil)
	restoredV.Restore(vs.Snapshot())
	_, ok = restoredV.Get(vid)
	assert.True(t, ok)
}

func TestSessionStore(t *testing.T) {
	var changes []string
	s := NewSessionStore(func(name string) { changes = append(changes, name) })

	u := s.User()
	assert.Equal(t, models.RoleAdmin, u.Role)

	u = s.SwitchToPlanner("p1")
	assert.Equal(t, models.RolePlanner, u.Role)
	assert.Equal(t, "p1", u.PlannerID)
	assert.Equal(t, "p1", u.ScopedPlannerID())

	s.SetMoneyBlurred(true)
	assert.True(t, s.MoneyBlurred())

	restored := NewSessionStore(nil)
	restored.Restore(s.Snapshot())
	assert.Equal(t, "planner-p1", restored.User().ID)
	assert.True(t, restored.MoneyBlurred())

	u = s.SwitchToAdmin()
	assert.True(t, u.Admin())
	assert.Contains(t, changes, NameSession)
}
