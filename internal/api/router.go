package api

import (
	"database/sql"
	"net/http"

	"github.com/thepluginfactory/forms-highlevel-bridge/internal/api/handlers"
	"github.com/thepluginfactory/forms-highlevel-bridge/internal/client/highlevel"
	"github.com/thepluginfactory/forms-highlevel-bridge/internal/repository"
	"github.com/thepluginfactory/forms-highlevel-bridge/internal/service"
)

func SetupRouter(db *sql.DB, apiToken string, locationId string) *http.ServeMux {
	mux := http.NewServeMux()

	highLevelClient := highlevel.NewHighLevelClient(apiToken, locationId)

	mappingRepo := repository.NewFormMappingRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)

	submissionService := service.NewSubmissionService(
		highLevelClient,
		highLevelClient,
		mappingRepo,
		submissionRepo,
		locationId,
	)

	fieldService := service.NewFieldService(highLevelClient)

	mappingHandler := handlers.NewMappingHandler(mappingRepo)
	submissionHandler := handlers.NewSubmissionHandler(submissionService)
	fieldHandler := handlers.NewFieldHandler(fieldService)

	mux.HandleFunc("POST /forms/{id}/submissions", submissionHandler.Submit)
	mux.HandleFunc("GET /forms/{id}/mappings", mappingHandler.GetMapping)
	mux.HandleFunc("POST /forms/{id}/mappings", mappingHandler.SaveMapping)
	mux.HandleFunc("GET /submissions", submissionHandler.ListSubmissions)

	mux.HandleFunc("GET /fields", fieldHandler.GetFields)
	mux.HandleFunc("POST /fields/refresh", fieldHandler.RefreshFields)

	return mux
}
