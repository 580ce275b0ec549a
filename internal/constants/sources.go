package constants

// Идентификаторы источников, они же префиксы ID объявлений
const (
	SourceDaft   = "daft"
	SourceMyHome = "myhome"
	SourceRentIE = "rent_ie"
)

// Адреса сайтов по умолчанию
const (
	DaftBaseURL   = "https://www.daft.ie"
	MyHomeBaseURL = "https://www.myhome.ie"
	RentIEFeedURL = "https://www.rent.ie/rss"
)

// Пути поиска
const (
	DaftSearchPath   = "/property-for-rent/dublin"
	MyHomeSearchPath = "/rentals/dublin/property-to-rent"
	RentIEHousesPath = "houses-to-let"
	RentIERoomsPath  = "rooms-to-rent"
)

// RentIEAreaSlugs переводит название района в сегмент URL ленты Rent.ie
var RentIEAreaSlugs = map[string]string{
	"dublin 1":           "dublin-1",
	"dublin 2":           "dublin-2",
	"dublin 3":           "dublin-3",
	"dublin 4":           "dublin-4",
	"dublin 5":           "dublin-5",
	"dublin 6":           "dublin-6",
	"dublin 6w":          "dublin-6w",
	"dublin 7":           "dublin-7",
	"dublin 8":           "dublin-8",
	"dublin 9":           "dublin-9",
	"dublin 10":          "dublin-10",
	"dublin 11":          "dublin-11",
	"dublin 12":          "dublin-12",
	"dublin 13":          "dublin-13",
	"dublin 14":          "dublin-14",
	"dublin 15":          "dublin-15",
	"dublin 16":          "dublin-16",
	"dublin 17":          "dublin-17",
	"dublin 18":          "dublin-18",
	"dublin 20":          "dublin-20",
	"dublin 22":          "dublin-22",
	"dublin 24":          "dublin-24",
	"dublin city centre": "dublin-city-centre",
	"city centre":        "dublin-city-centre",
	"rathmines":          "rathmines",
	"ranelagh":           "ranelagh",
	"portobello":         "portobello",
	"drumcondra":         "drumcondra",
	"phibsborough":       "phibsborough",
	"smithfield":         "smithfield",
	"stoneybatter":       "stoneybatter",
	"dundrum":            "dundrum",
	"stillorgan":         "stillorgan",
	"blackrock":          "blackrock",
	"dun laoghaire":      "dun-laoghaire",
	"sandymount":         "sandymount",
	"ballsbridge":        "ballsbridge",
	"clontarf":           "clontarf",
	"glasnevin":          "glasnevin",
	"terenure":           "terenure",
	"harold's cross":     "harolds-cross",
	"harolds cross":      "harolds-cross",
	"ringsend":           "ringsend",
	"grand canal":        "grand-canal-dock",
	"grand canal dock":   "grand-canal-dock",
	"ifsc":               "ifsc",
}
