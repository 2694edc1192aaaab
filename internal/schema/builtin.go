package schema

// The streaming-platform tables. These are the only tables the service
// manages; the set is fixed at compile time.

var Usuario = &Table{
	Name:     "usuario",
	IDColumn: "id_usuario",
	Columns: []Column{
		{Name: "id_usuario", Type: AutoID},
		{Name: "nombre", Type: Text},
		{Name: "correo", Type: Text},
		{Name: "fecha_registro", Type: Date},
		{Name: "pais", Type: Text},
		{Name: "edad", Type: Integer},
		{Name: "suscripcion_activa", Type: Boolean},
	},
}

var Artista = &Table{
	Name:     "artista",
	IDColumn: "id_artista",
	Columns: []Column{
		{Name: "id_artista", Type: AutoID},
		{Name: "nombre_artista", Type: Text},
		{Name: "pais_artista", Type: Text},
		{Name: "anio_debut", Type: Integer},
	},
}

var Album = &Table{
	Name:     "album",
	IDColumn: "id_album",
	Columns: []Column{
		{Name: "id_album", Type: AutoID},
		{Name: "titulo_album", Type: Text},
		{Name: "anio_album", Type: Integer},
		{Name: "id_artista", Type: Integer},
	},
	Constraints: []string{
		"FOREIGN KEY (id_artista) REFERENCES artista(id_artista)",
	},
}

var Cancion = &Table{
	Name:     "cancion",
	IDColumn: "id_cancion",
	Columns: []Column{
		{Name: "id_cancion", Type: AutoID},
		{Name: "titulo_cancion", Type: Text},
		{Name: "duracion", Type: Time},
		{Name: "genero_cancion", Type: Text},
		{Name: "id_artista", Type: Integer},
		{Name: "id_album", Type: Integer},
	},
	Constraints: []string{
		"FOREIGN KEY (id_artista) REFERENCES artista(id_artista)",
		"FOREIGN KEY (id_album) REFERENCES album(id_album)",
	},
}

var Playlist = &Table{
	Name:     "playlist",
	IDColumn: "id_playlist",
	Columns: []Column{
		{Name: "id_playlist", Type: AutoID},
		{Name: "nombre_playlist", Type: Text},
		{Name: "descripcion", Type: Text},
		{Name: "id_usuario", Type: Integer},
	},
	Constraints: []string{
		"FOREIGN KEY (id_usuario) REFERENCES usuario(id_usuario)",
	},
}

// PlaylistCancion is a many-to-many join table with a composite primary key
// (id_playlist, id_cancion). The generic engine only targets id_playlist for
// update and delete, so those operations touch every row of a playlist.
// Known limitation; compound-key operations would change observable behavior.
var PlaylistCancion = &Table{
	Name:     "playlist_cancion",
	IDColumn: "id_playlist",
	Columns: []Column{
		{Name: "id_playlist", Type: Integer},
		{Name: "id_cancion", Type: Integer},
		{Name: "orden", Type: Integer},
	},
	Constraints: []string{
		"PRIMARY KEY (id_playlist, id_cancion)",
		"FOREIGN KEY (id_playlist) REFERENCES playlist(id_playlist)",
		"FOREIGN KEY (id_cancion) REFERENCES cancion(id_cancion)",
	},
}

var Reproduccion = &Table{
	Name:     "reproduccion",
	IDColumn: "id_reproduccion",
	Columns: []Column{
		{Name: "id_reproduccion", Type: AutoID},
		{Name: "id_usuario", Type: Integer},
		{Name: "id_cancion", Type: Integer},
		{Name: "fecha_reproduccion", Type: Timestamp},
		{Name: "dispositivo", Type: Text},
		{Name: "ubicacion", Type: Text},
	},
	Constraints: []string{
		"FOREIGN KEY (id_usuario) REFERENCES usuario(id_usuario)",
		"FOREIGN KEY (id_cancion) REFERENCES cancion(id_cancion)",
	},
}

// Builtin returns the managed tables in dependency order, so that creating
// them in sequence satisfies foreign key references.
func Builtin() []*Table {
	return []*Table{
		Usuario,
		Artista,
		Album,
		Cancion,
		Playlist,
		PlaylistCancion,
		Reproduccion,
	}
}
