package scheduling

import "github.com/noah-isme/routine-api/internal/models"

// Registry holds the reference data the checker needs to name resources in
// rejection reasons and to look up teacher off-days.
type Registry struct {
	Teachers map[string]models.Teacher
	Rooms    map[string]models.Room
	Sections map[string]models.Section
}

// NewRegistry indexes entity slices by id.
func NewRegistry(teachers []models.Teacher, rooms []models.Room, sections []models.Section) Registry {
	reg := Registry{
		Teachers: make(map[string]models.Teacher, len(teachers)),
		Rooms:    make(map[string]models.Room, len(rooms)),
		Sections: make(map[string]models.Section, len(sections)),
	}
	for _, t := range teachers {
		reg.Teachers[t.ID] = t
	}
	for _, r := range rooms {
		reg.Rooms[r.ID] = r
	}
	for _, s := range sections {
		reg.Sections[s.ID] = s
	}
	return reg
}

func (r Registry) teacherName(id string) string {
	if t, ok := r.Teachers[id]; ok {
		return t.DisplayName()
	}
	return id
}

func (r Registry) roomName(id string) string {
	if room, ok := r.Rooms[id]; ok && room.RoomNumber != "" {
		return room.RoomNumber
	}
	return id
}

func (r Registry) sectionName(id string) string {
	if s, ok := r.Sections[id]; ok {
		return s.Label()
	}
	return id
}
