//go:build fyne

package main

import (
	"errors"

	"fyne.io/fyne/v2/app"

	"github.com/oukeidos/kozh/internal/store"
	"github.com/oukeidos/kozh/internal/store/fynestore"
)

// fyneAppID must match the host app so both read the same preferences file.
const fyneAppID = "io.github.oukeidos.kozh"

func init() {
	openFyneStore = func() (store.Store, error) {
		app.NewWithID(fyneAppID)
		st := fynestore.FromApp("kozh.")
		if st == nil {
			return nil, errors.New("fyne app could not be created")
		}
		return st, nil
	}
}
