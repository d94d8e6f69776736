// Package permission : битовая маска прав пользователя на запрос FOIL.
// Позиция бита каждой capability фиксируется навсегда: сохранённые маски
// в БД зависят от нумерации, менять или переставлять позиции нельзя,
// новые права добавляются только в конец списка.
package permission

import (
	"errors"
	"fmt"
)

type Capability int

// Позиции битов стабильны, порядок append-only
const (
	AddNote Capability = iota
	AddFile
	AddLink
	AddInstruction
	GrantExtension
	EditResponse
	DeleteResponse
	ChangePrivacy
	ManageUsers
	ChangeStatus

	capabilityCount // всегда последним
)

// Mask : неотрицательное целое, бит i соответствует Capability(i)
type Mask uint64

var ErrUnknownCapability = errors.New("неизвестная capability")

var names = [capabilityCount]string{
	AddNote:        "add_note",
	AddFile:        "add_file",
	AddLink:        "add_link",
	AddInstruction: "add_instruction",
	GrantExtension: "grant_extension",
	EditResponse:   "edit_response",
	DeleteResponse: "delete_response",
	ChangePrivacy:  "change_privacy",
	ManageUsers:    "manage_users",
	ChangeStatus:   "change_status",
}

var labels = [capabilityCount]string{
	AddNote:        "Add Note",
	AddFile:        "Add File",
	AddLink:        "Add Link",
	AddInstruction: "Add Offline Instructions",
	GrantExtension: "Grant Extension",
	EditResponse:   "Edit Response",
	DeleteResponse: "Delete Response",
	ChangePrivacy:  "Change Privacy",
	ManageUsers:    "Manage Users",
	ChangeStatus:   "Change Status",
}

func (c Capability) Valid() bool {
	return c >= 0 && c < capabilityCount
}

func (c Capability) Name() string {
	if !c.Valid() {
		return ""
	}
	return names[c]
}

func (c Capability) Label() string {
	if !c.Valid() {
		return ""
	}
	return labels[c]
}

func (c Capability) Bit() Mask {
	return Mask(1) << uint(c)
}

// All : все capability в каноническом порядке битов
func All() []Capability {
	all := make([]Capability, 0, capabilityCount)
	for c := Capability(0); c < capabilityCount; c++ {
		all = append(all, c)
	}
	return all
}

// Parse : находит capability по имени
func Parse(name string) (Capability, error) {
	for c := Capability(0); c < capabilityCount; c++ {
		if names[c] == name {
			return c, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownCapability, name)
}

// Add : устанавливает биты перечисленных capability, операция идемпотентна
func Add(mask Mask, capabilities ...Capability) (Mask, error) {
	for _, c := range capabilities {
		if !c.Valid() {
			return mask, fmt.Errorf("%w: %d", ErrUnknownCapability, int(c))
		}
		mask |= c.Bit()
	}
	return mask, nil
}

// Remove : сбрасывает биты перечисленных capability, операция идемпотентна
func Remove(mask Mask, capabilities ...Capability) (Mask, error) {
	for _, c := range capabilities {
		if !c.Valid() {
			return mask, fmt.Errorf("%w: %d", ErrUnknownCapability, int(c))
		}
		mask &^= c.Bit()
	}
	return mask, nil
}

func Has(mask Mask, c Capability) bool {
	if !c.Valid() {
		return false
	}
	return mask&c.Bit() != 0
}

// Labels : человекочитаемые названия установленных прав в каноническом порядке битов
func Labels(mask Mask) []string {
	result := []string{}
	for c := Capability(0); c < capabilityCount; c++ {
		if Has(mask, c) {
			result = append(result, labels[c])
		}
	}
	return result
}

// Set : список установленных capability в каноническом порядке битов
func Set(mask Mask) []Capability {
	result := []Capability{}
	for c := Capability(0); c < capabilityCount; c++ {
		if Has(mask, c) {
			result = append(result, c)
		}
	}
	return result
}
