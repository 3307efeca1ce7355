package domain

type Genre struct {
	Name        string
	Description string
}

type Director struct {
	Name string
	Bio  string
}

type Movie struct {
	ID          string
	Title       string
	Description string
	Genre       Genre
	Director    Director
	Actors      []string
	ImagePath   string
	Featured    bool
}
