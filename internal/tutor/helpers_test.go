package tutor

import "github.com/abhisek/labprep/internal/catalog"

func testCatalog() *catalog.Catalog {
	return catalog.New(catalog.TopicRecord{
		Topic:           "Adiabatic Calorimetry",
		InitialQuestion: "Why insulate the calorimeter?",
		KeyConcepts:     []string{"no heat exchange"},
	})
}
