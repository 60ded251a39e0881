package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/gupta1123/fieldsales-teams/internal/auth"
	"github.com/gupta1123/fieldsales-teams/internal/domain"
	"github.com/gupta1123/fieldsales-teams/internal/hierarchy"
	"github.com/gupta1123/fieldsales-teams/internal/service"
)

func newNormalizeCmd() *cobra.Command {
	var file, output string
	cmd := &cobra.Command{
		Use:   "normalize",
		Short: "Normalize a saved /employee/team/hierarchy response",
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readFile(file)
			if err != nil {
				return err
			}
			payload, err := hierarchy.DecodePayload(raw)
			if err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), output, hierarchy.Normalize(payload))
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "hierarchy JSON file, - for stdin")
	cmd.Flags().StringVarP(&output, "output", "o", "json", "json or yaml")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newPoolCmd() *cobra.Command {
	var hierarchyFile, employeesFile, citiesFile, category, output string
	cmd := &cobra.Command{
		Use:   "pool",
		Short: "Compute the assignment pool for a category from saved responses",
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := domain.ParseCategory(category)
			if err != nil {
				return err
			}
			raw, err := readFile(hierarchyFile)
			if err != nil {
				return err
			}
			payload, err := hierarchy.DecodePayload(raw)
			if err != nil {
				return err
			}
			raw, err = readFile(employeesFile)
			if err != nil {
				return err
			}
			employees, skipped, err := hierarchy.DecodeEmployees(raw)
			if err != nil {
				return err
			}
			if skipped > 0 {
				fmt.Fprintf(cmd.ErrOrStderr(), "skipped %d malformed employees\n", skipped)
			}
			var cities []string
			if citiesFile != "" {
				raw, err = readFile(citiesFile)
				if err != nil {
					return err
				}
				if err := json.Unmarshal(raw, &cities); err != nil {
					return fmt.Errorf("decode cities: %w", err)
				}
			}

			result := hierarchy.Normalize(payload)
			board := &service.Board{Teams: result.Teams, Employees: employees, Cities: cities, Dropped: result.Dropped}
			return writeOutput(cmd.OutOrStdout(), output, service.BuildPoolView(board, cat))
		},
	}
	cmd.Flags().StringVar(&hierarchyFile, "hierarchy", "", "hierarchy JSON file")
	cmd.Flags().StringVar(&employeesFile, "employees", "", "employee list JSON file")
	cmd.Flags().StringVar(&citiesFile, "cities", "", "optional city list JSON file")
	cmd.Flags().StringVar(&category, "category", string(domain.CategoryRegional), "regional or coordinator")
	cmd.Flags().StringVarP(&output, "output", "o", "json", "json or yaml")
	_ = cmd.MarkFlagRequired("hierarchy")
	_ = cmd.MarkFlagRequired("employees")
	return cmd
}

func newTokenCmd() *cobra.Command {
	var (
		subject     int64
		role        string
		authorities []string
		ttl         time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a development bearer token signed with AUTH_JWT_SECRET",
		RunE: func(cmd *cobra.Command, args []string) error {
			secret := os.Getenv("AUTH_JWT_SECRET")
			if secret == "" {
				return fmt.Errorf("AUTH_JWT_SECRET must be set")
			}
			if subject <= 0 {
				return fmt.Errorf("--sub must be a positive employee id")
			}
			minutes := int(ttl / time.Minute)
			if minutes < 1 {
				minutes = 1
			}
			token, expires, err := auth.NewTokenManager(secret, minutes).GenerateToken(subject, role, authorities)
			if err != nil {
				return err
			}
			caps := domain.ResolveCapabilities(role, authorities)
			fmt.Fprintln(cmd.OutOrStdout(), token)
			fmt.Fprintf(cmd.ErrOrStderr(), "role=%s canManageTeams=%t expires=%s\n",
				caps.Role, caps.CanManageTeams, expires.Format(time.RFC3339))
			return nil
		},
	}
	cmd.Flags().Int64Var(&subject, "sub", 0, "employee id")
	cmd.Flags().StringVar(&role, "role", "", "primary role, e.g. ROLE_ADMIN")
	cmd.Flags().StringSliceVar(&authorities, "authority", nil, "additional authorities")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "token lifetime")
	return cmd
}
