// Command csvtools parses, indexes and checks delimited text files.
//
//	csvtools parse -f id=0 -f mail=email users.csv
//	csvtools index -k email:lower --on-collision skip users.csv
//	csvtools check users.csv
//
// Settings are taken, in increasing precedence, from the defaults, the file
// named by --config, CSVTOOLS_* environment variables (also read from
// --env), a --sniff guess and the command line flags.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	app := newApp(os.Stdout, os.Stderr)
	if err := app.Run(ctx, os.Args[1:]); err != nil {
		stop()
		if errors.Is(err, errInvalidStructure) {
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, "csvtools:", err)
		os.Exit(1)
	}
}
