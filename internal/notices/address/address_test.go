package address

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"waternotice/internal/notices/models"
)

type AddressSuite struct {
	suite.Suite
}

func TestAddressSuite(t *testing.T) {
	suite.Run(t, new(AddressSuite))
}

func fullContact() models.PostalContact {
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

func (s *AddressSuite) TestFormatPostalAddress() {
	s.Run("builds name line from salutation initials and name", func() {
		block := FormatPostalAddress(fullContact())
		s.Equal("Mr H Duce", block.NameLine())
	})

	s.Run("falls back to forename when no initials held", func() {
		contact := fullContact()
		contact.Initials = ""
		contact.Forename = "Harry"

		block := FormatPostalAddress(contact)
		s.Equal("Mr Harry Duce", block.NameLine())
	})

	s.Run("orders lines with postcode last", func() {
		block := FormatPostalAddress(fullContact())
		s.Equal([]string{
			"Mr H Duce",
			"4 Privet Drive",
			"Little Whinging",
			"Surrey",
			"WD25 7LR",
		}, block.Lines)
		s.True(block.Valid())
	})

	s.Run("compacts absent fields without blank intermediate lines", func() {
		contact := fullContact()
		contact.Town = ""
		contact.County = " "

		block := FormatPostalAddress(contact)
		s.Equal([]string{"Mr H Duce", "4 Privet Drive", "WD25 7LR"}, block.Lines)
	})

	s.Run("non-UK address ends with its country", func() {
		contact := fullContact()
		contact.Postcode = ""
		contact.Country = "France"

		block := FormatPostalAddress(contact)
		s.Equal("France", block.Lines[len(block.Lines)-1])
		s.True(block.Valid())
	})

	s.Run("caps the block at six lines dropping middle lines first", func() {
		contact := fullContact()
		contact.AddressLine2 = "The Cupboard"
		contact.AddressLine3 = "Under the Stairs"
		contact.AddressLine4 = "West Wing"

		block := FormatPostalAddress(contact)
		s.Len(block.Lines, 6)
		s.Equal("Mr H Duce", block.Lines[0])
		s.Equal("WD25 7LR", block.Lines[5])
		s.NotContains(block.Lines, "Surrey")
	})
}

func (s *AddressSuite) TestInvalidAddress() {
	s.Run("no postcode and no country produces the marker in the postcode slot", func() {
		contact := fullContact()
		contact.Postcode = ""
		contact.Country = ""

		block := FormatPostalAddress(contact)
		s.Equal([]string{
			"Mr H Duce",
			"4 Privet Drive",
			"Little Whinging",
			"Surrey",
			InvalidAddressMarker,
		}, block.Lines)
		s.False(block.Valid())
	})

	s.Run("marker never becomes a blank line", func() {
		block := FormatPostalAddress(models.PostalContact{Name: "Shake Holding Ltd"})
		s.Equal([]string{"Shake Holding Ltd", InvalidAddressMarker}, block.Lines)
		for _, line := range block.Lines {
			s.NotEmpty(line)
		}
	})

	s.Run("marker keeps the six line cap", func() {
		contact := fullContact()
		contact.AddressLine2 = "The Cupboard"
		contact.AddressLine3 = "Under the Stairs"
		contact.AddressLine4 = "West Wing"
		contact.Postcode = ""
		contact.Country = ""

		block := FormatPostalAddress(contact)
		s.Len(block.Lines, 6)
		s.Equal(InvalidAddressMarker, block.Lines[5])
	})
}
