package container

import (
	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/bootcamp-directory/config"
	"github.com/oksasatya/bootcamp-directory/internal/application"
	repo "github.com/oksasatya/bootcamp-directory/internal/domain/repository"
	"github.com/oksasatya/bootcamp-directory/internal/infrastructure/geocoder"
	pginfra "github.com/oksasatya/bootcamp-directory/internal/infrastructure/postgres"
	"github.com/oksasatya/bootcamp-directory/internal/infrastructure/redisstore"
	"github.com/oksasatya/bootcamp-directory/internal/infrastructure/search"
	fs "github.com/oksasatya/bootcamp-directory/internal/infrastructure/storage"
	"github.com/oksasatya/bootcamp-directory/pkg/helpers"
	"github.com/oksasatya/bootcamp-directory/pkg/mailer"
)

// Container holds the components built at startup. The router wires every
// module from it; tests fill the same struct with in-memory fakes.
type Container struct {
	Config *config.Config
	Logger *logrus.Logger

	Pool   *pgxpool.Pool
	Redis  *redis.Client // nil when REDIS_ADDR is empty
	GCS    *storage.Client
	ES     *elasticsearch.Client
	Rabbit *helpers.RabbitPublisher

	JWT    *helpers.JWTManager
	Mailer mailer.Sender

	// Optional collaborators stay nil interfaces when unconfigured.
	Geocoder    application.Geocoder
	Files       application.FileStore
	Index       application.BootcampIndex
	Revocations application.Revocations

	Users     repo.UserRepository
	Bootcamps repo.BootcampRepository
	Courses   repo.CourseRepository
	Reviews   repo.ReviewRepository
}

// New builds the parts that only need configuration.
func New(cfg *config.Config, logger *logrus.Logger) *Container {
	return &Container{
		Config: cfg,
		Logger: logger,
		JWT:    helpers.NewJWTManager(cfg.JWTSecret, cfg.JWTExpire),
		Mailer: mailer.Disabled{},
		Files:  fs.NewLocal(cfg.FileUploadPath),
	}
}

// UsePostgres points every repository at pool.
func (c *Container) UsePostgres(pool *pgxpool.Pool) {
	c.Pool = pool
	c.Users = pginfra.NewUserRepository(pool)
	c.Bootcamps = pginfra.NewBootcampRepository(pool)
	c.Courses = pginfra.NewCourseRepository(pool)
	c.Reviews = pginfra.NewReviewRepository(pool)
}

// UseRedis enables distributed rate limiting and token revocation.
func (c *Container) UseRedis(rdb *redis.Client) {
	c.Redis = rdb
	c.Revocations = redisstore.NewRevocations(rdb)
}

// UseGCS stores uploads in bucket instead of the local upload directory.
func (c *Container) UseGCS(client *storage.Client, bucket string) {
	c.GCS = client
	c.Files = fs.NewGCS(client, bucket)
}

// UseElasticsearch mirrors bootcamps into index and enables search.
func (c *Container) UseElasticsearch(es *elasticsearch.Client, index string) {
	c.ES = es
	c.Index = search.NewBootcampIndex(es, index)
}

func (c *Container) UseMapQuest(apiKey, baseURL string) {
	c.Geocoder = geocoder.NewMapQuest(apiKey, baseURL)
}

// UseMailgun sends mail directly from the API process.
func (c *Container) UseMailgun(domain, apiKey, sender string) {
	c.Mailer = mailer.NewMailgun(domain, apiKey, sender)
}

// UseMailQueue publishes mail jobs for cmd/email_worker.
func (c *Container) UseMailQueue(pub *helpers.RabbitPublisher) {
	c.Rabbit = pub
	c.Mailer = mailer.NewQueue(pub)
}

// Close releases the clients the container owns.
func (c *Container) Close() {
	if c.Rabbit != nil {
		c.Rabbit.Close()
	}
	if c.GCS != nil {
		_ = c.GCS.Close()
	}
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
	if c.Pool != nil {
		c.Pool.Close()
	}
}
