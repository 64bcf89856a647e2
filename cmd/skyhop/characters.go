package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/skyhop/internal/platform/tui"
)

var flagShop bool

var charactersCmd = &cobra.Command{
	Use:   "characters",
	Short: "Show the character catalogue and wallet",
	Long: `List every character with its price and whether it is owned. Drops
collected during climbs are banked when a run ends and buy characters.

Examples:
  skyhop characters
  skyhop characters --shop
  skyhop buy flea
  skyhop equip flea`,
	Args: cobra.NoArgs,
	RunE: runCharacters,
}

var buyCmd = &cobra.Command{
	Use:   "buy <character>",
	Short: "Unlock a character with banked drops",
	Args:  cobra.ExactArgs(1),
	RunE:  runBuy,
}

var equipCmd = &cobra.Command{
	Use:   "equip <character>",
	Short: "Choose the character for new runs",
	Args:  cobra.ExactArgs(1),
	RunE:  runEquip,
}

func init() {
	charactersCmd.Flags().BoolVar(&flagShop, "shop", false, "Open the interactive shop")
}

func runCharacters(_ *cobra.Command, _ []string) error {
	e, err := newEnv(flagShop)
	if err != nil {
		return err
	}
	defer e.Close()

	if flagShop {
		rt := runtimeConfig()
		_, err := tui.RunCharacters(e.deps(), rt.ScreenW, rt.ScreenH)
		return err
	}

	p := e.profile()
	equipped := p.Equipped().ID
	fmt.Printf("Wallet: %s drops\n\n", humanize.Comma(int64(p.Wallet())))
	fmt.Printf("  %-2s  %-12s  %-12s  %8s  %s\n", "", "ID", "Name", "Price", "Status")
	for _, ch := range e.cfg.Characters {
		status := "locked"
		switch {
		case ch.ID == equipped:
			status = "equipped"
		case p.IsUnlocked(ch.ID):
			status = "owned"
		}
		fmt.Printf("  %-2s  %-12s  %-12s  %8s  %s\n", ch.Glyph, ch.ID, ch.Name, humanize.Comma(int64(ch.Price)), status)
	}
	return nil
}

func runBuy(_ *cobra.Command, args []string) error {
	e, err := newEnv(false)
	if err != nil {
		return err
	}
	defer e.Close()
	if _, err := e.requireStore(); err != nil {
		return err
	}

	p := e.profile()
	if err := p.Buy(args[0]); err != nil {
		return err
	}
	ch := e.cfg.Character(args[0])
	e.logger.Info("character unlocked", "character", ch.ID, "price", ch.Price)
	fmt.Printf("Unlocked %s. Wallet: %s drops\n", ch.Name, humanize.Comma(int64(p.Wallet())))
	return nil
}

func runEquip(_ *cobra.Command, args []string) error {
	e, err := newEnv(false)
	if err != nil {
		return err
	}
	defer e.Close()
	if _, err := e.requireStore(); err != nil {
		return err
	}

	if err := e.profile().Equip(args[0]); err != nil {
		return err
	}
	fmt.Printf("%s equipped. It plays from your next climb.\n", e.cfg.Character(args[0]).Name)
	return nil
}
