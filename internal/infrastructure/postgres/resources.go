package postgres

// Resource descriptors for the list endpoints. Hidden columns (password hash,
// reset and confirmation digests) are deliberately absent.

const bootcampLocationExpr = `CASE WHEN b.latitude IS NULL THEN NULL ELSE json_build_object(
	'type', 'Point',
	'coordinates', json_build_array(b.longitude, b.latitude),
	'formattedAddress', b.formatted_address,
	'street', b.street,
	'city', b.city,
	'state', b.state,
	'zipcode', b.zipcode,
	'country', b.country) END`

const bootcampCoursesExpr = `COALESCE((SELECT json_agg(json_build_object(
	'id', c.id,
	'title', c.title,
	'weeks', c.weeks,
	'tuition', c.tuition,
	'minimumSkill', c.minimum_skill) ORDER BY c.created_at)
	FROM courses c WHERE c.bootcamp_id = b.id), '[]'::json)`

var bootcampResource = newResource("bootcamps b",
	field{name: "id", column: "b.id", kind: kindUUID, expr: "b.id::text"},
	field{name: "name", column: "b.name"},
	field{name: "slug", column: "b.slug"},
	field{name: "description", column: "b.description"},
	field{name: "website", column: "b.website"},
	field{name: "phone", column: "b.phone"},
	field{name: "email", column: "b.email"},
	field{name: "address", column: "b.address"},
	field{name: "location", kind: kindObject, expr: bootcampLocationExpr},
	field{name: "location.city", column: "b.city", filterOnly: true},
	field{name: "location.state", column: "b.state", filterOnly: true},
	field{name: "location.zipcode", column: "b.zipcode", filterOnly: true},
	field{name: "location.country", column: "b.country", filterOnly: true},
	field{name: "careers", column: "b.careers", kind: kindTextArray},
	field{name: "averageRating", column: "b.average_rating", kind: kindNumber},
	field{name: "averageCost", column: "b.average_cost", kind: kindNumber},
	field{name: "photo", column: "b.photo"},
	field{name: "housing", column: "b.housing", kind: kindBool},
	field{name: "jobAssistance", column: "b.job_assistance", kind: kindBool},
	field{name: "jobGuarantee", column: "b.job_guarantee", kind: kindBool},
	field{name: "acceptGi", column: "b.accept_gi", kind: kindBool},
	field{name: "user", column: "b.user_id", kind: kindUUID, expr: "b.user_id::text"},
	field{name: "createdAt", column: "b.created_at", kind: kindTime},
	field{name: "courses", kind: kindObject, expr: bootcampCoursesExpr, virtual: true},
)

const courseBootcampExpr = `(SELECT json_build_object('id', bc.id, 'name', bc.name, 'description', bc.description)
	FROM bootcamps bc WHERE bc.id = c.bootcamp_id)`

var courseResource = newResource("courses c",
	field{name: "id", column: "c.id", kind: kindUUID, expr: "c.id::text"},
	field{name: "title", column: "c.title"},
	field{name: "description", column: "c.description"},
	field{name: "weeks", column: "c.weeks", kind: kindInt},
	field{name: "tuition", column: "c.tuition", kind: kindNumber},
	field{name: "minimumSkill", column: "c.minimum_skill"},
	field{name: "scholarshipAvailable", column: "c.scholarship_available", kind: kindBool},
	field{name: "bootcamp", column: "c.bootcamp_id", kind: kindUUID, expr: "c.bootcamp_id::text", populate: courseBootcampExpr},
	field{name: "user", column: "c.user_id", kind: kindUUID, expr: "c.user_id::text"},
	field{name: "createdAt", column: "c.created_at", kind: kindTime},
)

const reviewBootcampExpr = `(SELECT json_build_object('id', bc.id, 'name', bc.name, 'description', bc.description)
	FROM bootcamps bc WHERE bc.id = r.bootcamp_id)`

var reviewResource = newResource("reviews r",
	field{name: "id", column: "r.id", kind: kindUUID, expr: "r.id::text"},
	field{name: "title", column: "r.title"},
	field{name: "text", column: "r.text"},
	field{name: "rating", column: "r.rating", kind: kindInt},
	field{name: "bootcamp", column: "r.bootcamp_id", kind: kindUUID, expr: "r.bootcamp_id::text", populate: reviewBootcampExpr},
	field{name: "user", column: "r.user_id", kind: kindUUID, expr: "r.user_id::text"},
	field{name: "createdAt", column: "r.created_at", kind: kindTime},
)

var userResource = newResource("users u",
	field{name: "id", column: "u.id", kind: kindUUID, expr: "u.id::text"},
	field{name: "name", column: "u.name"},
	field{name: "email", column: "u.email"},
	field{name: "role", column: "u.role"},
	field{name: "isEmailConfirmed", column: "u.is_email_confirmed", kind: kindBool},
	field{name: "createdAt", column: "u.created_at", kind: kindTime},
)
