package catalog

// Static Spanish word lists, 24 entries each for the 6x4 grid.
var spanishCategories = []Category{
	{
		ID:          "animales_domesticos",
		Name:        "Animales Domésticos",
		Description: "Mascotas y animales que viven con las personas",
		Words: []string{
			"Perro", "Gato", "Pez", "Hamster", "Canario", "Loro",
			"Conejo", "Tortuga", "Iguana", "Chinchilla", "Cobayo", "Hurón",
			"Pájaro", "Ratón", "Serpiente", "Gecko", "Cacatúa", "Periquito",
			"Goldfish", "Beta", "Tarantula", "Axolotl", "Dragón Barbudo", "Agapornis",
		},
		Difficulty: DifficultyEasy,
	},
	{
		ID:          "animales_salvajes",
		Name:        "Animales Salvajes",
		Description: "Animales que viven en la naturaleza",
		Words: []string{
			"León", "Tigre", "Elefante", "Jirafa", "Zebra", "Hipopótamo",
			"Rinoceronte", "Gorila", "Chimpancé", "Leopardo", "Guepardo", "Jaguar",
			"Oso", "Lobo", "Zorro", "Ciervo", "Alce", "Bisonte",
			"Búfalo", "Antílope", "Gacela", "Okapi", "Tapir", "Wombat",
		},
		Difficulty: DifficultyEasy,
	},
	{
		ID:          "frutas",
		Name:        "Frutas",
		Description: "Frutas dulces y jugosas",
		Words: []string{
			"Manzana", "Naranja", "Plátano", "Pera", "Uva", "Fresa",
			"Sandía", "Melón", "Piña", "Mango", "Papaya", "Kiwi",
			"Durazno", "Ciruela", "Cereza", "Frambuesa", "Mora", "Arándano",
			"Coco", "Limón", "Lima", "Toronja", "Mandarina", "Granada",
		},
		Difficulty: DifficultyEasy,
	},
	{
		ID:          "comida_mexicana",
		Name:        "Comida Mexicana",
		Description: "Platillos típicos de México",
		Words: []string{
			"Tacos", "Quesadillas", "Enchiladas", "Tamales", "Pozole", "Mole",
			"Chiles Rellenos", "Guacamole", "Salsa", "Elote", "Esquites", "Sopes",
			"Tostadas", "Flautas", "Carnitas", "Barbacoa", "Cochinita Pibil", "Birria",
			"Menudo", "Chilaquiles", "Huaraches", "Tlayudas", "Pambazos", "Gorditas",
		},
		Difficulty: DifficultyEasy,
	},
	{
		ID:          "peces",
		Name:        "Peces",
		Description: "Animales acuáticos con aletas",
		Words: []string{
			"Tiburón", "Ballena", "Delfín", "Atún", "Salmón", "Bacalao",
			"Sardina", "Anchoa", "Merluza", "Dorada", "Lubina", "Trucha",
			"Pez Espada", "Manta Raya", "Pulpo", "Calamar", "Medusa", "Estrella de Mar",
			"Cangrejo", "Langosta", "Camarón", "Almeja", "Mejillón", "Ostra",
		},
		Difficulty: DifficultyMedium,
	},
	{
		ID:          "dulces_mexicanos",
		Name:        "Dulces Mexicanos",
		Description: "Golosinas tradicionales de México",
		Words: []string{
			"Mazapán", "Cocada", "Alegría", "Palanqueta", "Jamoncillo", "Glorias",
			"Cajeta", "Ate", "Charamuscas", "Borrachitos", "Muéganos", "Ponteduro",
			"Camote", "Dulce de Leche", "Capirotadas", "Buñuelos", "Churros", "Flan",
			"Tres Leches", "Arroz con Leche", "Jericaya", "Chongos Zamoranos", "Nicuatole", "Caballeros Pobres",
		},
		Difficulty: DifficultyMedium,
	},
	{
		ID:          "insectos",
		Name:        "Insectos",
		Description: "Pequeños animales con seis patas",
		Words: []string{
			"Mariposa", "Abeja", "Hormiga", "Araña", "Mosca", "Mosquito",
			"Libélula", "Grillo", "Saltamontes", "Escarabajo", "Mariquita", "Cucaracha",
			"Pulga", "Piojo", "Garrapata", "Chinche", "Avispa", "Abejorro",
			"Ciempiés", "Milpiés", "Escorpión", "Mantis Religiosa", "Luciérnaga", "Polilla",
		},
		Difficulty: DifficultyHard,
	},
	{
		ID:          "organos_internos",
		Name:        "Órganos Internos",
		Description: "Órganos dentro del cuerpo",
		Words: []string{
			"Corazón", "Pulmones", "Cerebro", "Hígado", "Riñones", "Estómago",
			"Intestinos", "Vesícula", "Páncreas", "Bazo", "Tiroides", "Laringe",
			"Tráquea", "Esófago", "Diafragma", "Apéndice", "Vejiga", "Útero",
			"Ovarios", "Próstata", "Médula Espinal", "Nervios", "Arterias", "Venas",
		},
		Difficulty: DifficultyHard,
	},
}
