package reparse

import (
	"fmt"
	"io/fs"
	"path"
	"sort"

	"github.com/corey/ruinadex/internal/domain/ident"
	"github.com/corey/ruinadex/internal/domain/model"
)

// recordSource describes where one kind's records live and how to read one.
type recordSource struct {
	kind  ident.Kind
	dir   string
	root  string
	tag   string
	parse func(n *node, id string) (model.Record, error)
}

var recordSources = [...]recordSource{
	ident.AbnoPage:     {ident.AbnoPage, "StaticInfo/EmotionCard", "EmotionCardXmlRoot", "EmotionCard", parseAbnoPage},
	ident.BattleSymbol: {ident.BattleSymbol, "StaticInfo/GiftInfo", "GiftXmlRoot", "Gift", parseBattleSymbol},
	ident.CombatPage:   {ident.CombatPage, "StaticInfo/Card", "DiceCardXmlRoot", "Card", parseCombatPage},
	ident.KeyPage:      {ident.KeyPage, "StaticInfo/EquipPage", "BookXmlRoot", "Book", parseKeyPage},
	ident.Passive:      {ident.Passive, "StaticInfo/PassiveList", "PassiveXmlRoot", "Passive", parsePassive},
}

// xmlFiles lists the *.xml files of dir in lexical order.
func xmlFiles(fsys fs.FS, dir string) ([]string, error) {
	files, err := fs.Glob(fsys, path.Join(dir, "*.xml"))
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// readRecords parses every record file of one kind. Ids must be unique
// across all files of the kind.
func readRecords(fsys fs.FS, src recordSource) ([]model.Record, error) {
	files, err := xmlFiles(fsys, src.dir)
	if err != nil {
		return nil, &SourceParseError{File: src.dir, Err: err}
	}
	if len(files) == 0 {
		return nil, &SourceParseError{File: src.dir, Err: fmt.Errorf("no %s files", src.kind)}
	}

	seen := make(map[string]string)
	var out []model.Record
	for _, file := range files {
		data, err := fs.ReadFile(fsys, file)
		if err != nil {
			return nil, &SourceParseError{File: file, Err: err}
		}
		root, err := parseDocument(data, src.root)
		if err != nil {
			return nil, &SourceParseError{File: file, Err: err}
		}
		for _, n := range root.descendants(src.tag, nil) {
			id, err := n.Attr("ID")
			if err != nil {
				return nil, &SourceParseError{File: file, Err: err}
			}
			if prev, dup := seen[id]; dup {
				return nil, &SourceParseError{File: file, RecordID: id, Err: fmt.Errorf("duplicate id, first defined in %s", prev)}
			}
			seen[id] = file
			rec, err := src.parse(n, id)
			if err != nil {
				return nil, &SourceParseError{File: file, RecordID: id, Err: err}
			}
			out = append(out, rec)
		}
	}
	return out, nil
}

func parseAbnoPage(n *node, id string) (model.Record, error) {
	p := &model.AbnoPage{Header: model.Header{ID: id}}
	var err error
	if p.Name, err = n.ChildText("Name", ""); err != nil {
		return nil, err
	}
	seph, err := n.ChildText("Sephirah", "None")
	if err != nil {
		return nil, err
	}
	if p.Sephirah, err = model.ParseSephirah(seph); err != nil {
		return nil, err
	}
	if p.Level, err = n.ChildInt("EmotionLevel", 1); err != nil {
		return nil, err
	}
	if p.TargetType, err = n.ChildText("TargetType", ""); err != nil {
		return nil, err
	}
	state, err := n.ChildText("State", "Positive")
	if err != nil {
		return nil, err
	}
	if p.State, err = model.ParseEmotionState(state); err != nil {
		return nil, err
	}
	if p.Script, err = n.ChildText("Script", ""); err != nil {
		return nil, err
	}
	if p.Artwork, err = n.ChildText("Artwork", ""); err != nil {
		return nil, err
	}
	return p, nil
}

func parseBattleSymbol(n *node, id string) (model.Record, error) {
	b := &model.BattleSymbol{Header: model.Header{ID: id}}
	var err error
	if b.Name, err = n.ChildText("Name", ""); err != nil {
		return nil, err
	}
	pos, err := n.ChildText("Position", "None")
	if err != nil {
		return nil, err
	}
	if b.Position, err = model.ParseGiftPosition(pos); err != nil {
		return nil, err
	}
	if b.Resource, err = n.ChildText("Resource", ""); err != nil {
		return nil, err
	}
	b.Scripts = n.Texts("Script")
	return b, nil
}

func parseCombatPage(n *node, id string) (model.Record, error) {
	c := &model.CombatPage{Header: model.Header{ID: id}}
	var err error
	if c.Name, err = n.ChildText("Name", ""); err != nil {
		return nil, err
	}
	if c.Artwork, err = n.ChildText("Artwork", ""); err != nil {
		return nil, err
	}
	rarity, err := n.ChildText("Rarity", "Common")
	if err != nil {
		return nil, err
	}
	if c.Rarity, err = model.ParseRarity(rarity); err != nil {
		return nil, err
	}
	spec, err := n.Unique("Spec")
	if err != nil {
		return nil, err
	}
	if c.Cost, err = spec.IntAttr("Cost"); err != nil {
		return nil, err
	}
	if c.Range, err = model.ParseCardRange(spec.AttrOr("Range", "Near")); err != nil {
		return nil, err
	}
	if c.StoryChapter, err = n.ChildInt("Chapter", 1); err != nil {
		return nil, err
	}
	c.Options = n.Texts("Option")
	if c.Script, err = n.ChildText("Script", ""); err != nil {
		return nil, err
	}
	c.Keywords = n.Texts("Keyword")

	list, err := n.Optional("BehaviourList")
	if err != nil {
		return nil, err
	}
	if list != nil {
		for i, b := range list.All("Behaviour") {
			d, err := parseDie(b)
			if err != nil {
				return nil, fmt.Errorf("behaviour %d: %w", i, err)
			}
			c.Dice = append(c.Dice, d)
		}
	}
	return c, nil
}

func parseDie(n *node) (model.Die, error) {
	var d model.Die
	var err error
	if d.Min, err = n.IntAttr("Min"); err != nil {
		return d, err
	}
	if d.Max, err = n.IntAttr("Dice"); err != nil {
		return d, err
	}
	if d.Type, err = model.ParseDiceType(n.AttrOr("Type", "Atk")); err != nil {
		return d, err
	}
	if d.Detail, err = model.ParseDiceDetail(n.AttrOr("Detail", "Slash")); err != nil {
		return d, err
	}
	d.Motion = n.AttrOr("Motion", "")
	d.Script = n.AttrOr("Script", "")
	d.Desc = n.AttrOr("Desc", "")
	return d, nil
}

func parseKeyPage(n *node, id string) (model.Record, error) {
	k := &model.KeyPage{Header: model.Header{ID: id}}
	var err error
	if k.Name, err = n.ChildText("Name", ""); err != nil {
		return nil, err
	}
	if k.TextID, err = n.ChildText("TextId", id); err != nil {
		return nil, err
	}
	if k.StoryChapter, err = n.ChildInt("Chapter", 1); err != nil {
		return nil, err
	}
	rarity, err := n.ChildText("Rarity", "Common")
	if err != nil {
		return nil, err
	}
	if k.Rarity, err = model.ParseRarity(rarity); err != nil {
		return nil, err
	}
	if k.CharacterSkin, err = n.ChildText("CharacterSkin", ""); err != nil {
		return nil, err
	}
	rng, err := n.ChildText("RangeType", "Melee")
	if err != nil {
		return nil, err
	}
	if k.Range, err = model.ParseBookRange(rng); err != nil {
		return nil, err
	}

	eq, err := n.Unique("EquipEffect")
	if err != nil {
		return nil, err
	}
	if k.HP, err = eq.RequiredInt("HP"); err != nil {
		return nil, err
	}
	if k.Break, err = eq.RequiredInt("Break"); err != nil {
		return nil, err
	}
	ints := []struct {
		tag string
		dst *int
		def int
	}{
		{"SpeedMin", &k.SpeedMin, 1},
		{"Speed", &k.SpeedMax, 4},
		{"SpeedDiceNum", &k.SpeedDiceNum, 1},
		{"StartPlayPoint", &k.StartLight, 3},
		{"MaxPlayPoint", &k.MaxLight, 3},
		{"AddedStartDraw", &k.AddedStartDraw, 0},
	}
	for _, f := range ints {
		if *f.dst, err = eq.ChildInt(f.tag, f.def); err != nil {
			return nil, err
		}
	}
	resists := []struct {
		tag string
		dst *model.Resistance
	}{
		{"SResist", &k.Resists.Slash},
		{"PResist", &k.Resists.Pierce},
		{"HResist", &k.Resists.Blunt},
		{"SBResist", &k.Resists.SlashBreak},
		{"PBResist", &k.Resists.PierceBreak},
		{"HBResist", &k.Resists.BluntBreak},
	}
	for _, r := range resists {
		s, err := eq.ChildText(r.tag, "Normal")
		if err != nil {
			return nil, err
		}
		if *r.dst, err = model.ParseResistance(s); err != nil {
			return nil, fmt.Errorf("%s: %w", r.tag, err)
		}
	}
	k.Passives = eq.Texts("Passive")
	k.OnlyCards = eq.Texts("OnlyCard")
	return k, nil
}

func parsePassive(n *node, id string) (model.Record, error) {
	p := &model.Passive{Header: model.Header{ID: id}}
	var err error
	if p.Name, err = n.ChildText("Name", ""); err != nil {
		return nil, err
	}
	rarity, err := n.ChildText("Rarity", "Common")
	if err != nil {
		return nil, err
	}
	if p.Rarity, err = model.ParseRarity(rarity); err != nil {
		return nil, err
	}
	if p.Cost, err = n.ChildInt("Cost", 0); err != nil {
		return nil, err
	}
	if p.Script, err = n.ChildText("Script", ""); err != nil {
		return nil, err
	}
	return p, nil
}
