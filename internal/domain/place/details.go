package place

// Details extends a Candidate with contact data from the place-details endpoint.
type Details struct {
	Candidate
	Phone       string
	Website     string
	MapsURL     string
	WeekdayText []string
}
