// Package cache mantiene la caché Redis del directorio público. La caché
// es una optimización: toda operación degrada a la base de datos cuando
// Redis no está disponible.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rlepezi/av10dejulio-sub005/config"
	"github.com/rlepezi/av10dejulio-sub005/pkg/logger"
	"github.com/redis/go-redis/v9"
)

const prefijoListado = "listado_publico"

var (
	client     *redis.Client
	listadoTTL time.Duration
)

// Init abre la conexión a Redis y verifica la conectividad.
func Init(cfg *config.RedisConfig) error {
	logger.Info("Inicializando conexión a Redis", map[string]interface{}{
		"host": cfg.Host,
		"port": cfg.Port,
		"db":   cfg.DB,
	})

	client = redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	listadoTTL = cfg.ListadoTTL

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error("No se pudo conectar a Redis", err, map[string]interface{}{
			"host": cfg.Host,
			"port": cfg.Port,
		})
		return fmt.Errorf("no se pudo conectar a Redis: %w", err)
	}

	logger.Info("Conexión a Redis establecida", nil)
	return nil
}

// Close cierra la conexión a Redis.
func Close() error {
	if client != nil {
		return client.Close()
	}
	return nil
}

// Disponible indica si la caché está inicializada.
func Disponible() bool {
	return client != nil
}

// GetListado busca un listado público cacheado y lo deserializa en dest.
// Devuelve false en cache miss o si la caché no está disponible.
func GetListado(ctx context.Context, clave string, dest interface{}) bool {
	if client == nil {
		return false
	}

	val, err := client.Get(ctx, prefijoListado+":"+clave).Result()
	if err == redis.Nil {
		return false
	}
	if err != nil {
		logger.Warn("Fallo al leer la caché del listado", map[string]interface{}{
			"clave": clave,
			"error": err.Error(),
		})
		return false
	}

	if err := json.Unmarshal([]byte(val), dest); err != nil {
		logger.Warn("Entrada de caché corrupta, se descarta", map[string]interface{}{
			"clave": clave,
		})
		return false
	}
	return true
}

// SetListado serializa y guarda un listado público con el TTL configurado.
func SetListado(ctx context.Context, clave string, valor interface{}) {
	if client == nil {
		return
	}

	data, err := json.Marshal(valor)
	if err != nil {
		logger.Warn("No se pudo serializar el listado para la caché", map[string]interface{}{
			"clave": clave,
		})
		return
	}

	if err := client.Set(ctx, prefijoListado+":"+clave, data, listadoTTL).Err(); err != nil {
		logger.Warn("No se pudo escribir la caché del listado", map[string]interface{}{
			"clave": clave,
			"error": err.Error(),
		})
	}
}

// InvalidarListado borra todas las entradas del listado público. Se invoca
// cuando una empresa entra o sale del estado activa o cambia su perfil.
func InvalidarListado(ctx context.Context) {
	if client == nil {
		return
	}

	iter := client.Scan(ctx, 0, prefijoListado+":*", 100).Iterator()
	var claves []string
	for iter.Next(ctx) {
		claves = append(claves, iter.Val())
	}
	if err := iter.Err(); err != nil {
		logger.Warn("Fallo al recorrer claves de caché", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	if len(claves) > 0 {
		if err := client.Del(ctx, claves...).Err(); err != nil {
			logger.Warn("No se pudieron invalidar entradas de caché", map[string]interface{}{
				"claves": len(claves),
				"error":  err.Error(),
			})
			return
		}
		logger.Debug("Caché del listado público invalidada", map[string]interface{}{
			"entradas": len(claves),
		})
	}
}
