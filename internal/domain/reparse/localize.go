package reparse

import (
	"errors"
	"fmt"
	"io/fs"
	"path"

	"github.com/corey/ruinadex/internal/domain/ident"
	"github.com/corey/ruinadex/internal/domain/locale"
	"github.com/corey/ruinadex/internal/domain/model"
)

// textSource describes one kind's localization files under Localize/<dir>/.
type textSource struct {
	kind  ident.Kind
	dir   string
	root  string
	tag   string
	key   string
	parse func(n *node) (model.Text, error)
}

var textSources = [...]textSource{
	ident.AbnoPage:     {ident.AbnoPage, "AbnormalityCards", "AbnormalityCardsRoot", "AbnormalityCard", "ID", parseAbnoPageText},
	ident.BattleSymbol: {ident.BattleSymbol, "GiftTexts", "GiftTextRoot", "GiftText", "ID", parseBattleSymbolText},
	ident.CombatPage:   {ident.CombatPage, "BattlesCards", "BattleCardDescRoot", "BattleCardDesc", "ID", parseCombatPageText},
	ident.KeyPage:      {ident.KeyPage, "Books", "BookDescRoot", "BookDesc", "BookID", parseKeyPageText},
	ident.Passive:      {ident.Passive, "PassiveList", "PassiveDescRoot", "PassiveDesc", "ID", parsePassiveText},
}

// localizedText is one parsed entry before it is merged into the corpus.
type localizedText struct {
	key  string
	text model.Text
}

// readTexts parses one kind's texts for one locale. A missing locale
// directory yields nothing; a present but malformed file is fatal.
func readTexts(fsys fs.FS, src textSource, loc locale.Locale) ([]localizedText, error) {
	dir := path.Join("Localize", loc.Dir(), src.dir)
	if _, err := fs.Stat(fsys, dir); errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	files, err := xmlFiles(fsys, dir)
	if err != nil {
		return nil, &SourceParseError{File: dir, Err: err}
	}

	seen := make(map[string]string)
	var out []localizedText
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
			key, err := n.Attr(src.key)
			if err != nil {
				return nil, &SourceParseError{File: file, Err: err}
			}
			if prev, dup := seen[key]; dup {
				return nil, &SourceParseError{File: file, RecordID: key, Err: fmt.Errorf("duplicate %s text, first defined in %s", loc, prev)}
			}
			seen[key] = file
			t, err := src.parse(n)
			if err != nil {
				return nil, &SourceParseError{File: file, RecordID: key, Err: err}
			}
			out = append(out, localizedText{key: key, text: t})
		}
	}
	return out, nil
}

func parseAbnoPageText(n *node) (model.Text, error) {
	t := &model.AbnoPageText{}
	var err error
	if t.CardName, err = n.ChildText("CardName", ""); err != nil {
		return nil, err
	}
	if t.AbilityDesc, err = n.ChildText("AbilityDesc", ""); err != nil {
		return nil, err
	}
	if t.FlavorText, err = n.ChildText("FlavorText", ""); err != nil {
		return nil, err
	}
	return t, nil
}

func parseBattleSymbolText(n *node) (model.Text, error) {
	t := &model.BattleSymbolText{}
	var err error
	if t.Prefix, err = n.ChildText("Prefix", ""); err != nil {
		return nil, err
	}
	if t.Postfix, err = n.ChildText("Postfix", ""); err != nil {
		return nil, err
	}
	if t.Desc, err = n.ChildText("Desc", ""); err != nil {
		return nil, err
	}
	return t, nil
}

func parseCombatPageText(n *node) (model.Text, error) {
	t := &model.CombatPageText{}
	var err error
	if t.Name, err = n.ChildText("LocalizedName", ""); err != nil {
		return nil, err
	}
	if t.Ability, err = n.ChildText("Ability", ""); err != nil {
		return nil, err
	}
	return t, nil
}

func parseKeyPageText(n *node) (model.Text, error) {
	t := &model.KeyPageText{}
	var err error
	if t.Name, err = n.ChildText("BookName", ""); err != nil {
		return nil, err
	}
	list, err := n.Optional("TextList")
	if err != nil {
		return nil, err
	}
	if list != nil {
		t.Desc = list.Texts("Desc")
	}
	return t, nil
}

func parsePassiveText(n *node) (model.Text, error) {
	t := &model.PassiveText{}
	var err error
	if t.Name, err = n.ChildText("Name", ""); err != nil {
		return nil, err
	}
	if t.Desc, err = n.ChildText("Desc", ""); err != nil {
		return nil, err
	}
	return t, nil
}
