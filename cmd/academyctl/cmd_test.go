package main

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"sambo-academy/internal/models"
	"sambo-academy/internal/repository"
	"sambo-academy/internal/repository/memory"
	subscription_service "sambo-academy/internal/service/subscription"
	database "sambo-academy/pkg"
)

func setup(t *testing.T, store repository.Store) (*commandLine, *bytes.Buffer) {
	out := &bytes.Buffer{}
	return &commandLine{
		subscriptions: subscription_service.NewSubscriptionService(store, zaptest.NewLogger(t), models.DefaultExpiryDays),
		out:           out,
	}, out
}

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
}

func runTests(t *testing.T, cli *commandLine, tests []cliTest) {
	t.Helper()
	for _, tt := range tests {
		args := append([]string{"academyctl"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(context.Background(), args)
			switch {
			case tt.wantErr != nil:
				assert.True(t, errors.Is(err, tt.wantErr), "error = %v, want %v", err, tt.wantErr)
			case tt.wantErrStr != "":
				require.Error(t, err)
				assert.Equal(t, tt.wantErrStr, err.Error())
			default:
				assert.NoError(t, err)
			}
		})
	}
}

func Test_commandLine_migrate(t *testing.T) {
	cli, _ := setup(t, memory.NewStore())

	orig := database.RunMigrations
	t.Cleanup(func() { database.RunMigrations = orig })
	database.RunMigrations = func(ctx context.Context, db *sql.DB, command string, args ...string) error {
		switch command {
		case "up", "down", "redo", "reset", "status", "version":
		case "up-to", "down-to":
			if len(args) == 0 {
				return fmt.Errorf("%s must be of form: goose [OPTIONS] DRIVER DBSTRING %s VERSION", command, command)
			}
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return fmt.Errorf("version must be a number (got '%s')", args[0])
			}
		default:
			return fmt.Errorf("%q: no such command", command)
		}
		return nil
	}

	runTests(t, cli, []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "no subcommand", args: []string{"migrate"}, wantErr: errHelp},
		{name: "unknown subcommand", args: []string{"migrate", "lol"}, wantErrStr: "\"lol\": no such command"},
		{name: "up-to: no args", args: []string{"migrate", "up-to"}, wantErrStr: "up-to must be of form: goose [OPTIONS] DRIVER DBSTRING up-to VERSION"},
		{name: "up-to: non-int arg", args: []string{"migrate", "up-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "up", args: []string{"migrate", "up"}},
		{name: "up-to", args: []string{"migrate", "up-to", "2"}},
		{name: "down-to", args: []string{"migrate", "down-to", "1"}},
		{name: "status", args: []string{"migrate", "status"}},
	})
}

func Test_commandLine_retier(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	cli, out := setup(t, store)

	trainer := &models.Trainer{FullName: "Иван Петров"}
	require.NoError(t, store.Trainers().Create(ctx, trainer))
	group := &models.Group{
		Name:        "Старшая группа",
		TrainerID:   trainer.ID,
		AgeCategory: models.AgeSenior,
		Schedule:    models.ScheduleMonWedFri,
		IsActive:    true,
	}
	require.NoError(t, store.Groups().Create(ctx, group))
	student := &models.Student{
		FullName:  "Алексей Смирнов",
		BirthDate: time.Date(2009, time.January, 12, 0, 0, 0, 0, time.UTC),
		GroupID:   group.ID,
		TrainerID: trainer.ID,
		IsActive:  true,
	}
	require.NoError(t, store.Students().Create(ctx, student))

	runTests(t, cli, []cliTest{
		{name: "no flags", args: []string{"retier"}, wantErr: errHelp},
		{name: "missing tier", args: []string{"retier", "-group", group.ID.String()}, wantErr: errHelp},
		{name: "bad group id", args: []string{"retier", "-group", "lol", "-tier", "8_sessions"}, wantErr: models.ErrInvalidInput},
		{name: "bad tier", args: []string{"retier", "-group", group.ID.String(), "-tier", "10_sessions"}, wantErr: models.ErrInvalidInput},
		{name: "unknown group", args: []string{"retier", "-group", "8d5e4b0c-2f4a-4a55-9c1e-3b7f1f3d2a10", "-tier", "8_sessions"}, wantErr: models.ErrNotFound},
		{name: "retier", args: []string{"retier", "-group", group.ID.String(), "-tier", "12_sessions"}},
	})

	assert.Contains(t, out.String(), "subscriptions issued: 1")
	stored, err := store.Groups().GetByID(ctx, group.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.DefaultTier)
	assert.Equal(t, models.TierTwelve, *stored.DefaultTier)

	active, err := store.Subscriptions().GetActiveByStudentID(ctx, student.ID)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, 12, active[0].TotalSessions)
}

func Test_commandLine_repairSubscriptions(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore(memory.WithoutActiveIndex())
	cli, out := setup(t, store)

	trainer := &models.Trainer{FullName: "Иван Петров"}
	require.NoError(t, store.Trainers().Create(ctx, trainer))
	group := &models.Group{Name: "Группа", TrainerID: trainer.ID, AgeCategory: models.AgeJunior, Schedule: models.ScheduleTueThu, IsActive: true}
	require.NoError(t, store.Groups().Create(ctx, group))
	student := &models.Student{FullName: "Борис Кузнецов", GroupID: group.ID, TrainerID: trainer.ID, IsActive: true}
	require.NoError(t, store.Students().Create(ctx, student))

	for _, start := range []time.Time{
		time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, time.October, 1, 0, 0, 0, 0, time.UTC),
	} {
		require.NoError(t, store.Subscriptions().Create(ctx, &models.Subscription{
			StudentID:         student.ID,
			Tier:              models.TierEight,
			TotalSessions:     8,
			RemainingSessions: 8,
			Price:             decimal.NewFromInt(3700),
			StartDate:         start,
			ExpiryDate:        start.AddDate(0, 0, models.DefaultExpiryDays),
			IsActive:          true,
		}))
	}

	require.NoError(t, cli.run(ctx, []string{"academyctl", "repair-subscriptions"}))
	assert.Contains(t, out.String(), "students with duplicates: 1")
	assert.Contains(t, out.String(), "subscriptions deactivated: 1")

	active, err := store.Subscriptions().GetActiveByStudentID(ctx, student.ID)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, time.Date(2025, time.October, 1, 0, 0, 0, 0, time.UTC), active[0].StartDate)
}
