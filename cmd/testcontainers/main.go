package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/uscann/chemtrack/internal/testutil"
)

func main() {
	var showHelp bool
	flag.BoolVar(&showHelp, "h", false, "show help")
	var envFilename string
	flag.StringVar(&envFilename, "f", "", "path to the .env file")
	var dbType string
	flag.StringVar(&dbType, "db", "", "database type: mariadb, mysql or postgres (default DB_TYPE or mariadb)")
	var image string
	flag.StringVar(&image, "image", "", "database image (default per database type)")
	var outFilename string
	flag.StringVar(&outFilename, "o", "", "write the connection settings to this .env file")
	flag.Parse()

	usage := `
Run a chemtrack development database in a container and print the connection
settings for the server.

Usage:

testcontainers [-h] [-f ENV_FILE_PATH] [-db TYPE] [-image IMAGE] [-o OUT_ENV_PATH]

ENV_FILE_PATH: path to a .env file read before starting
OUT_ENV_PATH:  path of a .env file the settings are written to

example
  testcontainers -db postgres -o /tmp/chemtrack.env
  ENV_FILE=/tmp/chemtrack.env server
`
	// if -h flag print usage and return
	if showHelp {
		fmt.Println(usage)
		return
	}

	if envFilename != "" {
		log.Printf("Loading environment variables from %s\n", envFilename)
		if err := godotenv.Load(envFilename); err != nil {
			log.Fatalf("Failed to load environment variables: %v\n", err)
		}
	}
	if dbType == "" {
		dbType = os.Getenv("DB_TYPE")
	}
	if dbType == "" || dbType == "sqlite" || dbType == "sqlite-pure" {
		dbType = "mariadb"
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	dc, err := testutil.StartDatabase(ctx, dbType, image)
	if err != nil {
		log.Fatalf("Failed to start database container: %v\n", err)
	}

	settings := map[string]string{
		"DB_TYPE":     dc.Config.DBType,
		"DB_HOST":     dc.Config.DBHost,
		"DB_PORT":     dc.Config.DBPort,
		"DB_DATABASE": dc.Config.DBDatabase,
		"DB_USER":     dc.Config.DBUser,
		"DB_PASSWORD": dc.Config.DBPassword,
	}
	content, err := godotenv.Marshal(settings)
	if err != nil {
		log.Fatalf("Failed to format settings: %v\n", err)
	}
	fmt.Println(content)

	if outFilename != "" {
		if err := godotenv.Write(settings, outFilename); err != nil {
			log.Printf("Failed to write %s: %v\n", outFilename, err)
		} else {
			log.Printf("Settings written to %s\n", outFilename)
		}
	}

	log.Println("Database is running, press Ctrl-C to terminate")
	<-ctx.Done()

	log.Println("Terminating database container...")
	if err := dc.Terminate(context.Background()); err != nil {
		log.Fatalf("Failed to terminate container: %v\n", err)
	}
}
