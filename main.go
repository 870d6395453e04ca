package main

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/thepluginfactory/forms-highlevel-bridge/internal/api"
	"github.com/thepluginfactory/forms-highlevel-bridge/internal/repository"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Arquivo .env não encontrado, usando variáveis de ambiente")
	}

	apiToken := os.Getenv("HIGHLEVEL_API_TOKEN")
	locationId := os.Getenv("HIGHLEVEL_LOCATION_ID")
	if apiToken == "" || locationId == "" {
		fmt.Println("⚠️  HIGHLEVEL_API_TOKEN/HIGHLEVEL_LOCATION_ID não configurados — submissões serão rejeitadas até configurar")
	}

	dbPath := os.Getenv("BRIDGE_DB_PATH")
	if dbPath == "" {
		dbPath = "./bridge.db"
	}

	db, err := repository.InitDB(dbPath)
	if err != nil {
		log.Fatal("Erro ao inicializar BD:", err)
	}
	defer db.Close()

	fmt.Println("✅ Banco de dados inicializado!")

	router := api.SetupRouter(db, apiToken, locationId)

	addr := os.Getenv("BRIDGE_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	fmt.Println("🚀 Servidor rodando em http://localhost" + addr)
	fmt.Println("📝 Endpoints disponíveis:")
	fmt.Println("   POST /forms/{id}/submissions - Receber submissão")
	fmt.Println("   GET/POST /forms/{id}/mappings - Mapeamento por formulário")
	fmt.Println("   GET /submissions - Listar envios")
	fmt.Println("   GET /fields | POST /fields/refresh - Campos do HighLevel")

	if err := http.ListenAndServe(addr, router); err != nil {
		log.Fatal("Erro ao iniciar servidor:", err)
	}
}
