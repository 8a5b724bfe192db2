package condocsv

// Profile describes one known legacy export layout. Column values are
// the exact header names the vendor writes.
type Profile struct {
	Name  string
	Comma rune

	NameCol  string
	DescCol  string
	AddrCol  string
	PriceCol string
	BedsCol  string
	BathsCol string
	SizeCol  string
}

// requiredCols are the headers that must be present for the profile to
// match. The rest are filled when available.
func (p *Profile) requiredCols() []string {
	return []string{p.NameCol, p.AddrCol, p.PriceCol}
}

var profiles = []Profile{
	{
		Name:     "condomanager",
		Comma:    ';',
		NameCol:  "Unit Name",
		DescCol:  "Details",
		AddrCol:  "Building Address",
		PriceCol: "Monthly Rate",
		BedsCol:  "Bedrooms",
		BathsCol: "Bathrooms",
		SizeCol:  "Floor Area (sqm)",
	},
	{
		Name:     "generic",
		Comma:    ',',
		NameCol:  "name",
		DescCol:  "description",
		AddrCol:  "address",
		PriceCol: "monthly_price",
		BedsCol:  "bedrooms",
		BathsCol: "bathrooms",
		SizeCol:  "size_sqm",
	},
}
