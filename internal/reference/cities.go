package reference

// displayCities is the hand-maintained list shown under a successful
// prediction. It is presentation data only: duplicates are intentional and it
// is not consulted when deciding whether a country can be predicted.
var displayCities = []string{
	"United States of America", "Germany", "United States of America", "Switzerland",
	"Switzerland", "Switzerland", "United Kingdom", "Egypt", "United States of America",
	"France", "United States of America", "Canada", "Brazil", "Lithuania", "Monaco",
	"Belgium", "Poland", "Uzbekistan", "Italy", "France", "Singapore", "Canada",
	"United Kingdom", "Germany", "North Macedonia", "Poland", "Slovenia", "Bulgaria",
	"Italy", "Poland", "Norway", "Germany", "Portugal", "United Arab Emirates", "Italy",
	"Russia", "Germany", "Poland", "Russia", "Russia", "Russia", "People's Republic of China",
	"Georgia", "Slovenia", "India", "Czech Republic", "Israel", "Uruguay", "Bangladesh",
	"Pakistan", "Croatia", "Philippines", "Argentina", "Mexico", "Japan", "Bolivia",
	"Spain", "Cote d'Ivoire", "Venezuela", "Guatemala", "Cuba", "Austria", "Sweden",
	"Finland", "Russia", "Iceland", "Estonia", "Latvia", "Slovakia", "Hungary", "Poland",
	"Luxembourg", "Liechtenstein", "San Marino", "Cambodia", "Vietnam", "Thailand",
	"Andorra", "Malaysia", "Taiwan", "Ukraine", "Chile", "South Sudan", "Armenia", "Tanzania",
	"Sudan",
}

// DisplayCities returns a copy of the static display list.
func DisplayCities() []string {
	out := make([]string, len(displayCities))
	copy(out, displayCities)
	return out
}
