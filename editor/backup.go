package editor

// backUp pushes a copy of the map before an edit.
func (s *Session) backUp() {
	s.backups = append(s.backups, s.tileMap.Copy())
	if limit := s.cfg.UndoLimit; limit > 0 && len(s.backups) > limit {
		drop := len(s.backups) - limit
		clear(s.backups[:drop])
		s.backups = s.backups[drop:]
	}
}

// discardBackup pops the copy pushed for an edit that changed nothing.
func (s *Session) discardBackup() {
	if n := len(s.backups); n > 0 {
		s.backups[n-1] = nil
		s.backups = s.backups[:n-1]
	}
}

// BackupCount is the number of steps Undo can go back.
func (s *Session) BackupCount() int {
	return len(s.backups)
}

// Undo restores the map as it was before the last edit.
func (s *Session) Undo() bool {
	n := len(s.backups)
	if n == 0 {
		return false
	}
	s.tileMap = s.backups[n-1]
	s.backups[n-1] = nil
	s.backups = s.backups[:n-1]
	s.stroke = nil
	if _, ok := s.tileMap.TileSets[s.tileSet]; !ok {
		s.tileSetSelection = nil
		if ids := s.tileMap.TileSetIDs(); len(ids) > 0 {
			s.tileSet = ids[0]
		}
	}
	s.log.WithField("remaining", len(s.backups)).Debug("editor: undo")
	s.emit(MapEdited)
	s.RenderAll()
	s.scheduleSave()
	return true
}

// edit runs fn between a backup push and the notifications. The backup is
// dropped when fn reports that nothing changed.
func (s *Session) edit(fn func() bool) bool {
	s.backUp()
	if !fn() {
		s.discardBackup()
		return false
	}
	s.mapEdited()
	return true
}

func (s *Session) mapEdited() {
	s.emit(MapEdited)
	s.scheduleSave()
}
