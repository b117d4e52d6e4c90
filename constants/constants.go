package constants

import (
	"flag"
)

var (
	ServiceAccountFile string
	ListenAddr         string
	FrontendUrl        string
	EmailsFilePath     string
	PostgresDsn        string
	StorageBucket      string
)

func init() {
	flag.StringVar(&ServiceAccountFile, "service_account_file", "workspace_service_account.json", "path to the domain-wide delegated service account key")
	flag.StringVar(&ListenAddr, "listen_addr", ":8090", "address the web server listens on")
	flag.StringVar(&FrontendUrl, "frontend_url", "http://localhost:5173", "URLs allowlisted by UI for CORS.")
	flag.StringVar(&EmailsFilePath, "emails_file", "emails.txt", "path the save endpoint writes the address list to")
	flag.StringVar(&PostgresDsn, "postgres_dsn", "", "postgres DSN for the query audit log. Empty disables auditing.")
	flag.StringVar(&StorageBucket, "storage_bucket", "", "GCS bucket to mirror the saved address list to. Empty disables the mirror.")
	flag.Parse()
}
