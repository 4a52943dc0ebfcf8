package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"styleforge/internal/models"
)

var (
	personaName       string
	personaTraits     []string
	personaBackground string
	personaCommStyle  string
)

var personaCmd = &cobra.Command{
	Use:   "persona",
	Short: "Create, derive and inspect personas",
	Long: `Manage author personas. Personas condition generation and are immutable
once created: derive or create a new one instead of editing.

Subcommands:
  create   Create a persona by hand
  derive   Derive a persona from an analyzed style fingerprint
  list     List all personas
  show     Show a persona

Examples:
  styleforge persona create --name "The Essayist" --traits "wry,precise"
  styleforge persona derive ef56gh78 --name "Corpus Author"
  styleforge persona list
  styleforge persona show ab12cd34`,
}

var personaCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a persona by hand",
	RunE:  runPersonaCreate,
}

var personaDeriveCmd = &cobra.Command{
	Use:   "derive <feature-record-id>",
	Short: "Derive a persona from a style fingerprint",
	Args:  cobra.ExactArgs(1),
	RunE:  runPersonaDerive,
}

var personaListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all personas",
	RunE:  runPersonaList,
}

var personaShowCmd = &cobra.Command{
	Use:   "show <persona-id>",
	Short: "Show a persona",
	Args:  cobra.ExactArgs(1),
	RunE:  runPersonaShow,
}

func init() {
	personaCreateCmd.Flags().StringVar(&personaName, "name", "", "persona name (required)")
	personaCreateCmd.Flags().StringSliceVar(&personaTraits, "traits", nil, "personality traits")
	personaCreateCmd.Flags().StringVar(&personaBackground, "background", "", "author background")
	personaCreateCmd.Flags().StringVar(&personaCommStyle, "style", "", "communication style description")
	_ = personaCreateCmd.MarkFlagRequired("name")

	personaDeriveCmd.Flags().StringVar(&personaName, "name", "", "override the derived name")

	personaCmd.AddCommand(personaCreateCmd)
	personaCmd.AddCommand(personaDeriveCmd)
	personaCmd.AddCommand(personaListCmd)
	personaCmd.AddCommand(personaShowCmd)
}

func runPersonaCreate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	_, _, personaSvc, err := getServices(false)
	if err != nil {
		return err
	}

	persona, err := personaSvc.CreatePersona(ctx, &models.Persona{
		Name:               personaName,
		Traits:             personaTraits,
		Background:         personaBackground,
		CommunicationStyle: personaCommStyle,
	})
	if err != nil {
		return fmt.Errorf("create persona: %w", err)
	}

	fmt.Printf("Created persona %s (%s)\n", persona.ID, persona.Name)
	return nil
}

func runPersonaDerive(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	_, _, personaSvc, err := getServices(true)
	if err != nil {
		return err
	}

	persona, err := personaSvc.DerivePersona(ctx, args[0], personaName)
	if err != nil {
		return err
	}

	fmt.Printf("Derived persona %s from feature record %s\n\n", persona.ID, args[0])
	printPersona(persona)
	return nil
}

func runPersonaList(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	_, _, personaSvc, err := getServices(false)
	if err != nil {
		return err
	}

	personas, err := personaSvc.ListPersonas(ctx)
	if err != nil {
		return fmt.Errorf("list personas: %w", err)
	}

	if len(personas) == 0 {
		fmt.Println("No personas found.")
		return nil
	}

	fmt.Printf("Personas (%d):\n\n", len(personas))
	for _, p := range personas {
		derivedMark := ""
		if p.DerivedFrom != "" {
			derivedMark = " [derived]"
		}
		fmt.Printf("- %s  %s%s\n", p.ID, p.Name, derivedMark)
		if verbose && p.CommunicationStyle != "" {
			fmt.Printf("  %s\n", p.CommunicationStyle)
		}
	}

	return nil
}

func runPersonaShow(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	_, _, personaSvc, err := getServices(false)
	if err != nil {
		return err
	}

	persona, err := personaSvc.GetPersona(ctx, args[0])
	if err != nil {
		return err
	}

	printPersona(persona)
	return nil
}

func printPersona(p *models.Persona) {
	fmt.Printf("Persona: %s\n", p.ID)
	fmt.Printf("  Name: %s\n", p.Name)
	if len(p.Traits) > 0 {
		fmt.Printf("  Traits: %v\n", p.Traits)
	}
	if p.Background != "" {
		fmt.Printf("  Background: %s\n", p.Background)
	}
	if p.CommunicationStyle != "" {
		fmt.Printf("  Communication style: %s\n", p.CommunicationStyle)
	}
	if p.DerivedFrom != "" {
		fmt.Printf("  Derived from: %s\n", p.DerivedFrom)
	}
}
