package validators

import "go.mongodb.org/mongo-driver/bson"

var BookingValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"student_id",
			"teacher_id",
			"hours_per_day",
			"days_per_week",
			"months",
			"total_amount",
			"status",
			"payment_status",
			"start_date",
			"end_date",
			"occurrences",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"student_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"teacher_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"hours_per_day": bson.M{
				"bsonType": "int",
				"minimum":  1,
				"maximum":  12,
			},

			"days_per_week": bson.M{
				"bsonType": "int",
				"minimum":  1,
				"maximum":  7,
			},

			"months": bson.M{
				"bsonType": "int",
				"minimum":  1,
				"maximum":  24,
			},

			"total_amount": bson.M{
				"bsonType": []string{"double", "int", "long", "decimal"},
				"minimum":  0,
			},

			"status": bson.M{
				"bsonType": "string",
				"enum": []string{
					"pending",
					"confirmed",
					"cancelled",
					"completed",
				},
			},

			"payment_status": bson.M{
				"bsonType": "string",
				"enum": []string{
					"pending",
					"paid",
					"refunded",
				},
			},

			"start_date": bson.M{
				"bsonType": "string",
				"pattern":  "^[0-9]{4}-[0-9]{2}-[0-9]{2}$",
			},

			"end_date": bson.M{
				"bsonType": "string",
				"pattern":  "^[0-9]{4}-[0-9]{2}-[0-9]{2}$",
			},

			"occurrences": bson.M{
				"bsonType": "array",
				"minItems": 1,
				"items": bson.M{
					"bsonType": "object",
					"required": []string{"date", "start_time", "end_time", "status"},
					"properties": bson.M{
						"day_of_week": bson.M{
							"bsonType": "int",
							"minimum":  0,
							"maximum":  6,
						},
						"date": bson.M{
							"bsonType": "string",
							"pattern":  "^[0-9]{4}-[0-9]{2}-[0-9]{2}$",
						},
						"start_time": bson.M{
							"bsonType": "string",
							"pattern":  "^([01][0-9]|2[0-3]):[0-5][0-9]$",
						},
						"end_time": bson.M{
							"bsonType": "string",
							"pattern":  "^([01][0-9]|2[0-3]):[0-5][0-9]$",
						},
						"meeting_link": bson.M{
							"bsonType": "string",
						},
						"status": bson.M{
							"bsonType": "string",
							"enum": []string{
								"scheduled",
								"completed",
								"cancelled",
								"missed",
							},
						},
					},
				},
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
