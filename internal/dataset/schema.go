package dataset

// Kind describes how values in a column are compared and coerced.
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindDate
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindDate:
		return "date"
	default:
		return "string"
	}
}

const (
	ColID             = "ID"
	ColYear           = "Year"
	ColDate           = "Date"
	ColResolution     = "Resolution"
	ColDraft          = "Draft"
	ColOutcomeResults = "Outcome results"
	ColAgendaItem     = "Agenda item"
	ColAgendaCategory = "Agenda category"
	ColAgendaRegion   = "Agenda region"
	ColVote           = "Vote"
	ColMemberState    = "Member State"
)

type ColumnSpec struct {
	Name        string
	Kind        Kind
	Description string
}

// Schema is the fixed column set of the Security Council voting dataset. The data is unpivoted by
// member state, so each draft resolution appears once per vote cast.
var Schema = []ColumnSpec{
	{ColID, KindString, "An identifier for each draft resolution put to a vote. Since the data is unpivoted by Member State, each ID appears once per vote cast. Count distinct IDs to count draft resolutions, and count rows to count total individual votes."},
	{ColYear, KindInt, `The year of the vote stored as an integer (e.g., 1994). Use this column to filter by year. When plotting, treat it as a categorical/time label, never format it with commas (write "2002", not "2,002").`},
	{ColDate, KindDate, "The date on which the Security Council held the vote."},
	{ColResolution, KindString, `The number assigned to the resolution, if successfully adopted (e.g., "924 (1994)").`},
	{ColDraft, KindString, `The UN document symbol of the draft resolution (e.g., "S/1994/646").`},
	{ColOutcomeResults, KindString, `The result of the vote on the draft resolution. Categories: "Adopted unanimously", "Adopted by consensus", "Adopted by acclamation", "Adopted by majority", "Adopted without a vote", "Not adopted - failed to receive required number of votes", "Not adopted - no vote", "Not adopted - veto".`},
	{ColAgendaItem, KindString, `The agenda item of the Security Council under which the vote took place (e.g., "The situation in the Republic of Yemen").`},
	{ColAgendaCategory, KindString, "Indicates whether the agenda item is country-/region-specific, or thematic."},
	{ColAgendaRegion, KindString, `The geographical region related to the agenda item (e.g., "Middle East", "Africa", "Asia").`},
	{ColVote, KindString, `The vote cast by the Member State on the draft resolution: "Yes", "No", or "Abstain".`},
	{ColMemberState, KindString, `The name of the country casting the vote (e.g., "Argentina", "China", "United States").`},
}

// ColumnNames returns the schema column names in order.
func ColumnNames() []string {
	names := make([]string, len(Schema))
	for i, col := range Schema {
		names[i] = col.Name
	}
	return names
}

// KindOf returns the kind of a schema column, defaulting to string for unknown names.
func KindOf(name string) Kind {
	return columnKind(name)
}

func columnKind(name string) Kind {
	for _, col := range Schema {
		if col.Name == name {
			return col.Kind
		}
	}
	return KindString
}
