// Command addaccount starts tracking a player by Riot ID.
//
//	addaccount -riot-id "Faker#KR1" -platform kr
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"realm-warp/internal/constants"
	"realm-warp/internal/domain"
	fxmodules "realm-warp/internal/fx"
	"realm-warp/internal/service"
	"strings"

	"go.uber.org/fx"
)

func main() {
	riotID := flag.String("riot-id", "", "Riot ID as GameName#TAG")
	platformFlag := flag.String("platform", "", "platform code, e.g. euw1, na1, kr")
	flag.Parse()

	gameName, tagLine, ok := strings.Cut(*riotID, "#")
	if !ok {
		fmt.Fprintln(os.Stderr, "usage: addaccount -riot-id GameName#TAG -platform PLATFORM")
		os.Exit(2)
	}
	platform, err := domain.ParsePlatform(*platformFlag)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	app := fx.New(
		fxmodules.Core,
		fx.Provide(fxmodules.ProvideAccountService),
		fx.NopLogger,
		fx.Invoke(func(svc *service.AccountService, db *sql.DB) error {
			defer db.Close()

			ctx, cancel := context.WithTimeout(context.Background(), constants.ExternalAPITimeout+constants.DatabaseTimeout)
			defer cancel()

			account, err := svc.Register(ctx, gameName, tagLine, platform)
			if err != nil {
				return err
			}
			fmt.Printf("tracking %s on %s as %s\n", account.RiotID(), account.Platform, account.ID)
			return nil
		}),
	)
	if err := app.Err(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
