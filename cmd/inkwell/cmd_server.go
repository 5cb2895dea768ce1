package main

import (
	"fmt"
	"net/http"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/inkwell/app/repositories"
	"github.com/shashiranjanraj/inkwell/app/routes"
	"github.com/shashiranjanraj/inkwell/config"
	"github.com/shashiranjanraj/inkwell/internal/server"
	"github.com/shashiranjanraj/inkwell/pkg/app"
	"github.com/shashiranjanraj/inkwell/pkg/database"
	"github.com/shashiranjanraj/inkwell/pkg/storage"
)

// inkwell serve
var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"run"},
	Short:   "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		if port, _ := cmd.Flags().GetString("port"); port != "" {
			config.Set("APP_PORT", port)
		}

		ctx := cmd.Context()
		rt, err := server.Boot(ctx)
		if err != nil {
			return err
		}
		defer rt.Close(ctx)

		svc := routes.NewServices(rt.Store, storage.NewImages(config.MaxUploadBytes()))
		a := app.New().Routes(routes.API(svc)).Health(database.Ping)
		if local, ok := storage.Local(); ok {
			a.Files(http.FileServer(http.Dir(local.Root())))
		}
		return server.Start(ctx, a.Handler())
	},
}

// inkwell route:list
var routeListCmd = &cobra.Command{
	Use:   "route:list",
	Short: "List all registered routes",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc := routes.NewServices(&repositories.Store{}, nil)
		infos := app.New().Routes(routes.API(svc)).Router().Routes()

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "METHOD\tPATH\tNAME")
		fmt.Fprintln(w, "------\t----\t----")
		for _, ri := range infos {
			fmt.Fprintf(w, "%s\t%s\t%s\n", ri.Method, ri.Path, ri.Name)
		}
		return w.Flush()
	},
}

func init() {
	serveCmd.Flags().StringP("port", "p", "", "port to listen on (overrides APP_PORT)")
}
