package handlers

import (
	"fakestore-ingestor/internal/repos"
	"fakestore-ingestor/internal/services"

	"github.com/jmoiron/sqlx"
)

type Deps struct {
	HealthHandler  *HealthHandler
	ImportHandler  *ImportHandler
	ProductHandler *ProductHandler
}

func NewDeps(db *sqlx.DB, src services.CatalogSource) *Deps {
	prodRepo := repos.NewProductRepo(db)

	catalogSvc := services.NewCatalogService(prodRepo)
	importSvc := services.NewImportService(src, prodRepo)

	return &Deps{
		HealthHandler:  &HealthHandler{},
		ImportHandler:  &ImportHandler{Imports: importSvc},
		ProductHandler: &ProductHandler{Catalog: catalogSvc},
	}
}
