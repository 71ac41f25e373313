package geo

// Coordinate represents a geographic point.
type Coordinate struct {
	Lat float64
	Lon float64
}

// CasablancaCenter is used as the default location when a name cannot
// be resolved to coordinates.
var CasablancaCenter = Coordinate{Lat: 33.5731, Lon: -7.5898}

// locationCoords maps normalized location names to coordinates.
// Casablanca neighborhoods plus the major Moroccan cities.
var locationCoords = map[string]Coordinate{
	"maarif":       {Lat: 33.5833, Lon: -7.6333},
	"casa port":    {Lat: 33.6033, Lon: -7.6164},
	"technopark":   {Lat: 33.5167, Lon: -7.6500},
	"ain diab":     {Lat: 33.5900, Lon: -7.6700},
	"anfa":         {Lat: 33.5783, Lon: -7.6481},
	"centre ville": {Lat: 33.5950, Lon: -7.6200},
	"sidi maarouf": {Lat: 33.5350, Lon: -7.6650},
	"bourgogne":    {Lat: 33.5800, Lon: -7.6250},
	"racine":       {Lat: 33.5850, Lon: -7.6350},
	"gauthier":     {Lat: 33.5870, Lon: -7.6280},
	"oasis":        {Lat: 33.5650, Lon: -7.6450},
	"hay hassani":  {Lat: 33.5550, Lon: -7.6800},
	"medina":       {Lat: 33.6000, Lon: -7.6100},
	"corniche":     {Lat: 33.5920, Lon: -7.6650},
	"bouskoura":    {Lat: 33.4500, Lon: -7.6500},

	"casablanca": {Lat: 33.5731, Lon: -7.5898},
	"rabat":      {Lat: 34.0209, Lon: -6.8416},
	"marrakech":  {Lat: 31.6295, Lon: -7.9811},
	"tanger":     {Lat: 35.7595, Lon: -5.8340},
	"fes":        {Lat: 34.0181, Lon: -5.0078},
	"agadir":     {Lat: 30.4278, Lon: -9.5981},
	"el jadida":  {Lat: 33.2549, Lon: -8.5074},
	"mohammedia": {Lat: 33.6861, Lon: -7.3833},
}

// metroKeywords identify names inside the Casablanca metro area.
// Two names that both match are assumed to be a short urban trip.
var metroKeywords = []string{
	"maarif", "technopark", "ain diab", "anfa", "centre", "sidi maarouf",
	"bourgogne", "racine", "gauthier", "oasis", "hay hassani", "medina",
	"corniche", "port", "casa",
}

// distanceGraph holds curated road distances (km) between known
// location pairs. Built once at init, undirected, never mutated.
var distanceGraph = buildDistanceGraph()

type edge struct {
	from, to string
	km       float64
}

func buildDistanceGraph() map[string]map[string]float64 {
	edges := []edge{
		// Casablanca neighborhoods
		{"maarif", "casa port", 6.5},
		{"maarif", "technopark", 8.0},
		{"maarif", "ain diab", 5.0},
		{"maarif", "sidi maarouf", 7.5},
		{"maarif", "centre ville", 3.0},
		{"maarif", "anfa", 2.5},
		{"maarif", "bourgogne", 1.5},
		{"maarif", "racine", 1.0},
		{"maarif", "gauthier", 1.2},
		{"maarif", "oasis", 4.0},
		{"maarif", "hay hassani", 6.0},

		{"casa port", "technopark", 12.0},
		{"casa port", "ain diab", 8.0},
		{"casa port", "centre ville", 2.5},
		{"casa port", "sidi maarouf", 14.0},
		{"casa port", "anfa", 4.5},
		{"casa port", "medina", 1.0},

		{"technopark", "ain diab", 10.0},
		{"technopark", "sidi maarouf", 3.0},
		{"technopark", "bouskoura", 5.0},
		{"technopark", "centre ville", 15.0},

		{"ain diab", "anfa", 3.0},
		{"ain diab", "centre ville", 6.0},
		{"ain diab", "corniche", 1.0},

		{"centre ville", "anfa", 2.5},
		{"centre ville", "medina", 2.0},
		{"centre ville", "sidi maarouf", 12.0},

		// Inter-city
		{"casablanca", "rabat", 87.0},
		{"casablanca", "marrakech", 240.0},
		{"casablanca", "tanger", 340.0},
		{"casablanca", "fes", 295.0},
		{"casablanca", "agadir", 460.0},
		{"casablanca", "el jadida", 100.0},
		{"casablanca", "mohammedia", 25.0},
		{"rabat", "tanger", 250.0},
		{"rabat", "fes", 200.0},
		{"rabat", "marrakech", 330.0},
		{"marrakech", "agadir", 250.0},
		{"maarif", "rabat", 90.0},
		{"technopark", "rabat", 85.0},
	}

	graph := make(map[string]map[string]float64, len(edges))
	add := func(from, to string, km float64) {
		if graph[from] == nil {
			graph[from] = make(map[string]float64)
		}
		graph[from][to] = km
	}
	for _, e := range edges {
		add(e.from, e.to, e.km)
		add(e.to, e.from, e.km)
	}
	return graph
}
