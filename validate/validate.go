// Command validate is a small CLI that validates ruleset JSON files in the
// ../configs directory. It checks:
//   - JSON structure and required fields
//   - Engine constraints (positive costs, sane life cap, range, board minimum)
//   - Economic sanity (warns on costs no token could realistically ever pay)
//   - Derived board sizes for typical rosters
//
// It prints a concise report and exits non-zero if any ruleset is invalid.
package main

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/Omega97/token-tactics/game/config"
)

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Notes contains informational lines; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	File  string
	Valid bool
	Notes []string
}

// validateRuleset loads and validates a single ruleset JSON file. Structural
// checks come from config.Ruleset.Validate; the rest are sanity warnings a
// game designer would want to see before shipping a ruleset.
func validateRuleset(filePath string) ValidationResult {
	result := ValidationResult{
		File:  filepath.Base(filePath),
		Valid: true,
		Notes: []string{},
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.Valid = false
		result.Notes = append(result.Notes, fmt.Sprintf("Failed to read file: %v", err))
		return result
	}

	var ruleset config.Ruleset
	if err := json.Unmarshal(data, &ruleset); err != nil {
		result.Valid = false
		result.Notes = append(result.Notes, fmt.Sprintf("Invalid JSON: %v", err))
		return result
	}

	if err := ruleset.Validate(); err != nil {
		result.Valid = false
		result.Notes = append(result.Notes, err.Error())
		return result
	}

	rules := ruleset.Rules

	// Economy sanity. A token earns roughly 1 AP per turn, so a cost far
	// above the life cap means the action is effectively unreachable before
	// the token dies to sustained fire.
	horizon := 3 * rules.LifeCap
	for _, c := range []struct {
		name string
		val  int
	}{
		{"heal_self_cost", rules.HealSelfCost},
		{"gift_heart_cost", rules.GiftHeartCost},
		{"upgrade_cost", rules.UpgradeCost},
		{"capture_cost", rules.CaptureCost},
	} {
		if c.val > horizon {
			result.Notes = append(result.Notes,
				fmt.Sprintf("⚠ %s=%d exceeds %d (3x life_cap); the action may never be affordable", c.name, c.val, horizon))
		}
	}

	if rules.Density > 1.5 {
		result.Notes = append(result.Notes,
			fmt.Sprintf("⚠ density=%g sizes boards so every cell is in range of several tokens; expect immediate combat", rules.Density))
	}

	// Informational data
	result.Notes = append(result.Notes, fmt.Sprintf("✓ Name: %s", ruleset.Name))
	result.Notes = append(result.Notes, fmt.Sprintf("✓ Life: %d, Range: %d", rules.LifeCap, rules.ActionRange))
	result.Notes = append(result.Notes, fmt.Sprintf("✓ Costs: heal %d, gift_heart %d, upgrade %d, capture %d",
		rules.HealSelfCost, rules.GiftHeartCost, rules.UpgradeCost, rules.CaptureCost))
	result.Notes = append(result.Notes, fmt.Sprintf("✓ Board: min %d, density %g", rules.MinBoardSize, rules.Density))
	result.Notes = append(result.Notes, "✓ Auto board sizes: "+boardSizeTable(rules.ActionRange, rules.Density, rules.MinBoardSize))

	return result
}

// boardSizeTable previews the auto-computed board side for small rosters,
// mirroring the engine's sizing formula:
// max(min, floor(sqrt(density * tokens * (2*range+1)^2))).
func boardSizeTable(actionRange int, density float64, minSize int) string {
	diameter := 2*actionRange + 1
	var parts []string
	for _, tokens := range []int{2, 4, 8} {
		size := int(math.Sqrt(density * float64(tokens) * float64(diameter*diameter)))
		if size < minSize {
			size = minSize
		}
		parts = append(parts, fmt.Sprintf("%d tokens -> %dx%d", tokens, size, size))
	}
	return strings.Join(parts, ", ")
}

// main scans ../configs for *.json files and validates each one, printing a
// concise report and exiting with non-zero status if any are invalid.
func main() {
	configDir := "../configs"
	files, err := filepath.Glob(filepath.Join(configDir, "*.json"))
	if err != nil {
		fmt.Printf("Error finding ruleset files: %v\n", err)
		os.Exit(1)
	}

	allValid := true
	for _, file := range files {
		result := validateRuleset(file)

		fmt.Printf("\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Println("✅ VALID")
			for _, note := range result.Notes {
				fmt.Println("  " + note)
			}
		} else {
			fmt.Println("❌ INVALID")
			allValid = false
			for _, note := range result.Notes {
				fmt.Println("  ❌ " + note)
			}
		}
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Println("✅ All rulesets are valid!")
	} else {
		fmt.Println("❌ Some rulesets have errors")
		os.Exit(1)
	}
}
