package validators

import "go.mongodb.org/mongo-driver/bson"

var TutorValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"name",
			"location",
			"subjects",
			"teaching_modes",
			"verification_status",
			"is_booking_enabled",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"name": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 100,
			},

			"location": bson.M{
				"bsonType": "object",
				"required": []string{"type", "coordinates"},
				"properties": bson.M{
					"type": bson.M{
						"enum": []string{"Point"},
					},
					"coordinates": bson.M{
						"bsonType": "array",
						"minItems": 2,
						"maxItems": 2,
						"items": bson.M{
							"bsonType": "double",
						},
					},
				},
			},

			"subjects": bson.M{
				"bsonType": "array",
				"minItems": 1,
				"items": bson.M{
					"bsonType": "object",
					"required": []string{"subject", "classes", "boards", "price_per_hour"},
					"properties": bson.M{
						"subject": bson.M{
							"bsonType":  "string",
							"minLength": 2,
							"maxLength": 100,
						},
						"classes": bson.M{
							"bsonType": "array",
							"minItems": 1,
							"items":    bson.M{"bsonType": "string"},
						},
						"boards": bson.M{
							"bsonType": "array",
							"minItems": 1,
							"items":    bson.M{"bsonType": "string"},
						},
						"price_per_hour": bson.M{
							"bsonType":         "double",
							"exclusiveMinimum": true,
							"minimum":          0,
						},
					},
				},
			},

			"teaching_modes": bson.M{
				"bsonType": "array",
				"minItems": 1,
				"items": bson.M{
					"enum": []string{"online", "offline", "both"},
				},
			},

			"rating_avg": bson.M{
				"bsonType": "double",
				"minimum":  0,
				"maximum":  5,
			},

			"experience_years": bson.M{
				"bsonType": "int",
				"minimum":  0,
				"maximum":  60,
			},

			"verification_status": bson.M{
				"bsonType": "string",
				"enum": []string{
					"pending",
					"verified",
					"rejected",
				},
			},

			"is_booking_enabled": bson.M{
				"bsonType": "bool",
			},
		},
	},
}
