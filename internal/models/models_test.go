package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRef_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name      string
		in        string
		wantID    string
		populated bool
	}{
		{"bare id", `"abc123"`, "abc123", false},
		{"populated object", `{"_id":"d1","name":"Paracetamol","amount":12.5}`, "d1", true},
		{"null", `null`, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var r Ref[Drug]
			require.NoError(t, json.Unmarshal([]byte(tt.in), &r))
			assert.Equal(t, tt.wantID, r.ID)
			assert.Equal(t, tt.populated, r.Populated())
		})
	}
}

func TestRef_PopulatedValue(t *testing.T) {
	var li LineItem
	require.NoError(t, json.Unmarshal([]byte(`{"drug":{"_id":"d1","name":"Amoxicillin","amount":4},"quantity":3}`), &li))
	require.NotNil(t, li.Drug.Value)
	assert.Equal(t, "Amoxicillin", li.Drug.Value.Name)
	assert.InDelta(t, 12.0, li.Subtotal(), 0.0001)
}

func TestRef_MarshalWritesIDOnly(t *testing.T) {
	li := LineItem{Drug: Ref[Drug]{ID: "d1", Value: &Drug{ID: "d1", Name: "X", Amount: 2}}, Quantity: 2}
	b, err := json.Marshal(li)
	require.NoError(t, err)
	assert.JSONEq(t, `{"drug":"d1","quantity":2}`, string(b))

	b, err = json.Marshal(Ref[User]{})
	require.NoError(t, err)
	assert.Equal(t, "null", string(b))
}

func TestDate_JSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain date", `"2025-03-14"`, "2025-03-14"},
		{"rfc3339", `"2025-03-14T00:00:00.000Z"`, "2025-03-14"},
		{"empty", `""`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Date
			require.NoError(t, json.Unmarshal([]byte(tt.in), &d))
			assert.Equal(t, tt.want, d.String())
		})
	}

	d, err := ParseDate("2026-01-31")
	require.NoError(t, err)
	b, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2026-01-31"`, string(b))

	_, err = ParseDate("31/01/2026")
	assert.Error(t, err)
}

func TestStripRefs(t *testing.T) {
	items := []LineItem{{Drug: Ref[Drug]{ID: "a", Value: &Drug{Name: "A"}}, Quantity: 1}}
	out := StripRefs(items)
	require.Len(t, out, 1)
	assert.Nil(t, out[0].Drug.Value)
	assert.Equal(t, "a", out[0].DrugID())
	assert.NotNil(t, items[0].Drug.Value, "input must not be modified")
}

func TestPharmacistsAndForPharmacist(t *testing.T) {
	users := []User{
		{ID: "u1", UserType: UserTypeClient},
		{ID: "u2", UserType: UserTypePharmacist},
		{ID: "u3", UserType: UserTypeAdmin},
	}
	ph := Pharmacists(users)
	require.Len(t, ph, 1)
	assert.Equal(t, "u2", ph[0].ID)

	qs := []Quotation{
		{ID: "q1", Pharmacist: RefTo[User]("u2")},
		{ID: "q2", Pharmacist: RefTo[User]("u9")},
	}
	mine := ForPharmacist(qs, "u2")
	require.Len(t, mine, 1)
	assert.Equal(t, "q1", mine[0].ID)
}

func TestUser_HomePath(t *testing.T) {
	assert.Equal(t, "/", User{UserType: UserTypeClient}.HomePath())
	assert.Equal(t, "/admin", User{UserType: UserTypePharmacist}.HomePath())
	assert.Equal(t, "/admin", User{UserType: UserTypeAdmin}.HomePath())
}

func TestQuotation_DecodesPopulatedRefs(t *testing.T) {
	payload := `{"_id":"q1","pharmacist":{"_id":"p1","name":"Nimal","userType":"pharmacist"},
		"client":"c1","drugs":[{"drug":"d1","quantity":2}],"totalCost":50,
		"prescription":{"_id":"rx1","status":"open"},"state":"pending"}`
	var q Quotation
	require.NoError(t, json.Unmarshal([]byte(payload), &q))
	assert.Equal(t, "Nimal", q.PharmacistName())
	assert.Equal(t, "rx1", q.PrescriptionID())
	require.NotNil(t, q.Client)
	assert.Equal(t, "c1", q.Client.ID)
	assert.Equal(t, QuotationPending, q.State)
}
