package fingerprint

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"waternotice/internal/notices/models"
)

func TestNormalize(t *testing.T) {
	t.Run("case folds", func(t *testing.T) {
		assert.Equal(t, "shake holding ltd", Normalize("Shake Holding LTD"))
	})

	t.Run("trims and collapses internal whitespace", func(t *testing.T) {
		assert.Equal(t, "12 fault street", Normalize("  12   Fault\tStreet "))
	})

	t.Run("empty stays empty", func(t *testing.T) {
		assert.Equal(t, "", Normalize("   "))
	})
}

func TestEmail(t *testing.T) {
	t.Run("is a 64 char lowercase hex digest", func(t *testing.T) {
		fp := Email("primary.user@important.com")
		assert.Len(t, fp.String(), 64)
		assert.Regexp(t, "^[0-9a-f]{64}$", fp.String())
	})

	t.Run("case and whitespace insensitive", func(t *testing.T) {
		assert.Equal(t, Email("A@B.com"), Email("  a@b.COM "))
	})

	t.Run("different addresses differ", func(t *testing.T) {
		assert.NotEqual(t, Email("a@b.com"), Email("c@d.com"))
	})
}

func TestPostal(t *testing.T) {
	contact := func() models.PostalContact {
		return models.PostalContact{
			Type:         models.PostalContactPerson,
			Salutation:   "Mr",
			Initials:     "H",
			Name:         "Duce",
			AddressLine1: "4 Privet Drive",
			Town:         "Little Whinging",
			County:       "Surrey",
			Postcode:     "WD25 7LR",
		}
	}

	t.Run("identical contacts share a digest", func(t *testing.T) {
		assert.Equal(t, Postal(contact()), Postal(contact()))
	})

	t.Run("case differences do not split identity", func(t *testing.T) {
		shouty := contact()
		shouty.Name = "DUCE"
		shouty.Town = "LITTLE WHINGING"
		assert.Equal(t, Postal(contact()), Postal(shouty))
	})

	t.Run("field positions stay distinct when values shift", func(t *testing.T) {
		a := contact()
		a.AddressLine1 = "A"
		a.AddressLine2 = ""
		b := contact()
		b.AddressLine1 = ""
		b.AddressLine2 = "A"
		assert.NotEqual(t, Postal(a), Postal(b))
	})

	t.Run("email and postal digest spaces are disjoint", func(t *testing.T) {
		empty := models.PostalContact{}
		assert.NotEqual(t, Email(""), Postal(empty))
	})
}
