package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"sambo-academy/internal/models"
	"sambo-academy/internal/service"
	database "sambo-academy/pkg"
)

var errHelp = errors.New("help provided")

type commandLine struct {
	db            *sql.DB
	subscriptions service.SubscriptionService
	out           io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  migrate COMMAND [ARGS]                     - run a goose command (up, down, status, up-to VERSION, ...)")
	fmt.Fprintln(cli.out, "  repair-subscriptions                       - keep only the newest active subscription per student")
	fmt.Fprintln(cli.out, "  retier -group GROUP_ID -tier 8_sessions    - set the group default tier and reissue its subscriptions")
}

func (cli *commandLine) run(ctx context.Context, args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	retierCmd := flag.NewFlagSet("retier", flag.ContinueOnError)
	retierCmd.SetOutput(cli.out)
	retierGroup := retierCmd.String("group", "", "The group id.")
	retierTier := retierCmd.String("tier", "", "The new default tier: 8_sessions or 12_sessions.")

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return database.RunMigrations(ctx, cli.db, args[2], args[3:]...)
	case "repair-subscriptions":
		return cli.repairSubscriptions(ctx)
	case "retier":
		if err := retierCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *retierGroup == "" || *retierTier == "" {
			retierCmd.Usage()
			return errHelp
		}
		groupID, err := uuid.Parse(*retierGroup)
		if err != nil {
			return errors.Wrap(models.ErrInvalidInput, "group must be a uuid")
		}
		tier, err := models.ParseTier(*retierTier)
		if err != nil {
			return err
		}
		return cli.retier(ctx, groupID, tier)
	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) repairSubscriptions(ctx context.Context) error {
	report, err := cli.subscriptions.RepairDuplicates(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "students checked: %d\nstudents with duplicates: %d\nsubscriptions deactivated: %d\n",
		report.StudentsChecked, report.StudentsWithDuplicates, report.Deactivated)
	return nil
}

func (cli *commandLine) retier(ctx context.Context, groupID uuid.UUID, tier models.Tier) error {
	created, err := cli.subscriptions.ChangeGroupTier(ctx, groupID, tier)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "group %s moved to %s, subscriptions issued: %d\n", groupID, tier, len(created))
	return nil
}
