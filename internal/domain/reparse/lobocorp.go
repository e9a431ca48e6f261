package reparse

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strconv"

	"github.com/corey/ruinadex/internal/domain/corpus"
	"github.com/corey/ruinadex/internal/domain/locale"
	"github.com/corey/ruinadex/internal/domain/model"
)

const creatureList = "Creature/CreatureList.xml"

// apostleDamageSlot names the encyclopedia entries whose damage type is not
// written in the creature list. Each is fixed to the type of the given
// Defense/Slot index.
var apostleDamageSlot = map[uint32]int{
	100015: 3, // WhiteNight
	100016: 1, // One Sin and Hundreds of Good Deeds
}

// eggNameSources names the apocalypse-bird eggs. Their names live in the
// <Egg> node of the bird each egg belongs to, not in their own entry.
var eggNameSources = map[uint32]uint32{
	100041: 100029, // Big Bird
	100042: 100030, // Judgement Bird
	100043: 100031, // Punishing Bird
}

func parseCreatureID(s string) (uint32, error) {
	id, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("creature id %q: %w", s, err)
	}
	return uint32(id), nil
}

func readAbnormalities(fsys fs.FS) ([]*model.Abnormality, error) {
	data, err := fs.ReadFile(fsys, creatureList)
	if err != nil {
		return nil, &SourceParseError{File: creatureList, Err: err}
	}
	root, err := parseDocument(data, "CreatureList")
	if err != nil {
		return nil, &SourceParseError{File: creatureList, Err: err}
	}

	seen := make(map[uint32]bool)
	var out []*model.Abnormality
	for _, n := range root.All("Creature") {
		raw, err := n.Attr("id")
		if err != nil {
			return nil, &SourceParseError{File: creatureList, Err: err}
		}
		a, err := parseAbnormality(n, raw)
		if err != nil {
			return nil, &SourceParseError{File: creatureList, RecordID: raw, Err: err}
		}
		if seen[a.ID] {
			return nil, &SourceParseError{File: creatureList, RecordID: raw, Err: fmt.Errorf("duplicate id")}
		}
		seen[a.ID] = true
		out = append(out, a)
	}
	return out, nil
}

func parseAbnormality(n *node, raw string) (*model.Abnormality, error) {
	id, err := parseCreatureID(raw)
	if err != nil {
		return nil, err
	}
	a := &model.Abnormality{ID: id}
	if a.Code, err = n.Attr("code"); err != nil {
		return nil, err
	}
	risk, err := n.Attr("risk")
	if err != nil {
		return nil, err
	}
	if a.Risk, err = model.ParseRiskLevel(risk); err != nil {
		return nil, err
	}

	if slot, ok := apostleDamageSlot[id]; ok {
		def, err := n.Unique("Defense")
		if err != nil {
			return nil, err
		}
		slots := def.All("Slot")
		if slot >= len(slots) {
			return nil, fmt.Errorf("defense has %d slots, damage is fixed to slot %d", len(slots), slot)
		}
		typ, err := slots[slot].Attr("type")
		if err != nil {
			return nil, err
		}
		if a.Damage, err = model.ParseDamageType(typ); err != nil {
			return nil, err
		}
		return a, nil
	}

	dmg, err := n.ChildText("DamageType", "")
	if err != nil {
		return nil, err
	}
	if a.Damage, err = model.ParseDamageType(dmg); err != nil {
		return nil, err
	}
	return a, nil
}

type creatureText struct {
	name string
	egg  string
}

func readCreatureTexts(fsys fs.FS, loc locale.LoboLocale) (map[uint32]creatureText, error) {
	dir := path.Join("Localize", loc.Dir(), "Creatures")
	if _, err := fs.Stat(fsys, dir); errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	files, err := xmlFiles(fsys, dir)
	if err != nil {
		return nil, &SourceParseError{File: dir, Err: err}
	}

	out := make(map[uint32]creatureText)
	for _, file := range files {
		data, err := fs.ReadFile(fsys, file)
		if err != nil {
			return nil, &SourceParseError{File: file, Err: err}
		}
		root, err := parseDocument(data, "CreatureTextRoot")
		if err != nil {
			return nil, &SourceParseError{File: file, Err: err}
		}
		for _, n := range root.All("Creature") {
			raw, err := n.Attr("id")
			if err != nil {
				return nil, &SourceParseError{File: file, Err: err}
			}
			id, err := parseCreatureID(raw)
			if err != nil {
				return nil, &SourceParseError{File: file, RecordID: raw, Err: err}
			}
			if _, dup := out[id]; dup {
				return nil, &SourceParseError{File: file, RecordID: raw, Err: fmt.Errorf("duplicate %s text", loc)}
			}
			var t creatureText
			if t.name, err = n.ChildText("Name", ""); err != nil {
				return nil, &SourceParseError{File: file, RecordID: raw, Err: err}
			}
			if t.egg, err = n.ChildText("Egg", ""); err != nil {
				return nil, &SourceParseError{File: file, RecordID: raw, Err: err}
			}
			out[id] = t
		}
	}
	return out, nil
}

// loboResult is the LoboCorp half of a parse, merged after all goroutines finish.
type loboResult struct {
	abnos []*model.Abnormality
	texts [len(locale.AllLobo)]map[uint32]creatureText
}

func mergeLoboCorp(c *corpus.Corpus, res *loboResult) error {
	for _, a := range res.abnos {
		if err := c.AddAbnormality(a); err != nil {
			return err
		}
	}
	for _, loc := range locale.AllLobo {
		texts := res.texts[loc]
		for _, id := range c.AbnormalityIDs() {
			name := texts[id].name
			if src, ok := eggNameSources[id]; ok {
				name = texts[src].egg
			}
			if name == "" {
				continue
			}
			key := corpus.LoboTextKey{Locale: loc, ID: id}
			if err := c.AddAbnormalityText(key, &model.AbnormalityText{Name: name}); err != nil {
				return err
			}
		}
	}
	return nil
}
